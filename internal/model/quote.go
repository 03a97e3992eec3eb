package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuoteLine is one scope-of-work entry on a quote.
type QuoteLine struct {
	Module      string   `json:"module"`
	ModuleLabel string   `json:"module_label"`
	Feature     string   `json:"feature"`
	Label       string   `json:"label"`
	Quantity    int      `json:"quantity"`
	Kind        CostKind `json:"kind"`
}

// Text returns the line as printed on the quote, e.g. "Simple section (× 2)".
func (l QuoteLine) Text() string {
	if l.Quantity > 1 {
		return fmt.Sprintf("%s (× %d)", l.Label, l.Quantity)
	}
	return l.Label
}

// Quote bundles an estimate with the metadata needed to render it as a document.
type Quote struct {
	Number           string      `json:"number"`
	ClientName       string      `json:"client_name"`
	ProjectName      string      `json:"project_name"`
	ProjectTypeLabel string      `json:"project_type"`
	Date             time.Time   `json:"date"`
	Selection        Selection   `json:"selection"`
	Lines            []QuoteLine `json:"lines"`
	Estimate         Estimate    `json:"estimate"`
}

// NewQuote computes the estimate for sel and wraps it with client metadata.
// Blank client and project names become "Client" and "Project".
func NewQuote(clientName, projectName string, sel Selection, cat *Catalog, now time.Time) Quote {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		clientName = "Client"
	}
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		projectName = "Project"
	}

	typeLabel := sel.ProjectType
	if pt, ok := cat.ProjectType(sel.ProjectType); ok {
		typeLabel = pt.Label
	}

	return Quote{
		Number:           strings.ToUpper(uuid.New().String()[:8]),
		ClientName:       clientName,
		ProjectName:      projectName,
		ProjectTypeLabel: typeLabel,
		Date:             now,
		Selection:        sel,
		Lines:            BuildQuoteLines(sel.Features, cat),
		Estimate:         CalculateEstimate(sel, cat),
	}
}

// BuildQuoteLines lists the selected features in catalog order. Entries the
// catalog does not know are appended afterwards, sorted, under their raw keys.
func BuildQuoteLines(features FeatureSet, cat *Catalog) []QuoteLine {
	var lines []QuoteLine
	seen := make(map[string]map[string]bool)
	mark := func(module, feature string) {
		if seen[module] == nil {
			seen[module] = make(map[string]bool)
		}
		seen[module][feature] = true
	}

	for _, m := range cat.Modules() {
		for _, f := range m.Features {
			qty := features.Quantity(m.Key, f.Key)
			if qty <= 0 {
				continue
			}
			mark(m.Key, f.Key)
			lines = append(lines, QuoteLine{
				Module:      m.Key,
				ModuleLabel: m.Label,
				Feature:     f.Key,
				Label:       f.Label,
				Quantity:    qty,
				Kind:        f.Kind,
			})
		}
	}

	var extra []QuoteLine
	for _, e := range features.Entries() {
		if seen[e.Module][e.Feature] {
			continue
		}
		extra = append(extra, QuoteLine{
			Module:      e.Module,
			ModuleLabel: e.Module,
			Feature:     e.Feature,
			Label:       e.Feature,
			Quantity:    e.Quantity,
			Kind:        CostHours,
		})
	}
	sort.SliceStable(extra, func(i, j int) bool {
		if extra[i].Module != extra[j].Module {
			return extra[i].Module < extra[j].Module
		}
		return extra[i].Feature < extra[j].Feature
	})

	return append(lines, extra...)
}

// DateString formats the quote date as DD.MM.YYYY.
func (q Quote) DateString() string {
	return q.Date.Format("02.01.2006")
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName returns the suggested file name for the quote with the given
// extension, e.g. "Estimate_Acme_GmbH.pdf".
func (q Quote) FileName(ext string) string {
	name := whitespaceRun.ReplaceAllString(q.ClientName, "_")
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return "Estimate_" + name + "." + strings.TrimPrefix(ext, ".")
}
