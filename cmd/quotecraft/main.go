// QuoteCraft estimates project hours and prices from a feature catalog and
// exports client quotes.
//
// Build:
//
//	go build -o quotecraft ./cmd/quotecraft
package main

import (
	"os"

	"github.com/piwi3910/QuoteCraft/cmd/quotecraft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
