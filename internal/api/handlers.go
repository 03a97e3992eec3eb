package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/piwi3910/QuoteCraft/internal/export"
	"github.com/piwi3910/QuoteCraft/internal/input"
	"github.com/piwi3910/QuoteCraft/internal/model"
	"go.uber.org/zap"
)

// Form fields carrying quote metadata.
const (
	fieldClient  = "client"
	fieldProject = "project"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    s.now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.catalog.Definition(), http.StatusOK)
}

// handleEstimate handles POST /estimate
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	res, _, _, err := s.readSelection(w, r)
	if err != nil {
		s.writeError(w, "INVALID_INPUT", err.Error(), http.StatusBadRequest)
		return
	}

	est := model.CalculateEstimate(res.Selection, s.catalog)
	s.writeJSON(w, EstimateResponse{
		Selection: res.Selection,
		Estimate:  est,
		Display:   newDisplay(res.Selection, est),
		Warnings:  res.Warnings,
	}, http.StatusOK)
}

// handleQuotePDF handles POST /quote.pdf
func (s *Server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	q, ok := s.readQuote(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteQuotePDF(&buf, q, s.config); err != nil {
		s.logger.Error("quote PDF failed", zap.String("quote", q.Number), zap.Error(err))
		s.writeError(w, "EXPORT_ERROR", err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeAttachment(w, "application/pdf", q.FileName("pdf"), buf.Bytes())
}

// handleQuoteXLSX handles POST /quote.xlsx
func (s *Server) handleQuoteXLSX(w http.ResponseWriter, r *http.Request) {
	q, ok := s.readQuote(w, r)
	if !ok {
		return
	}

	data, err := export.GenerateQuoteXLSX(q, s.config)
	if err != nil {
		s.logger.Error("quote workbook failed", zap.String("quote", q.Number), zap.Error(err))
		s.writeError(w, "EXPORT_ERROR", err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", q.FileName("xlsx"), data)
}

func (s *Server) readQuote(w http.ResponseWriter, r *http.Request) (model.Quote, bool) {
	res, client, project, err := s.readSelection(w, r)
	if err != nil {
		s.writeError(w, "INVALID_INPUT", err.Error(), http.StatusBadRequest)
		return model.Quote{}, false
	}
	for _, warning := range res.Warnings {
		s.logger.Debug("selection adjusted", zap.String("warning", warning))
	}
	return model.NewQuote(client, project, res.Selection, s.catalog, s.now()), true
}

func (s *Server) writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write attachment", zap.Error(err))
	}
}

// readSelection parses a JSON or form body into a sanitized selection.
// Fields the request leaves out take the configured defaults.
func (s *Server) readSelection(w http.ResponseWriter, r *http.Request) (input.Result, string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var (
		values          url.Values
		client, project string
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req QuoteRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return input.Result{}, "", "", fmt.Errorf("invalid JSON: %w", err)
		}
		values = req.Values()
		client, project = req.Client, req.Project
	} else {
		if err := r.ParseForm(); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return input.Result{}, "", "", fmt.Errorf("request body too large")
			}
			return input.Result{}, "", "", fmt.Errorf("invalid form: %w", err)
		}
		values = r.Form
		client, project = values.Get(fieldClient), values.Get(fieldProject)
	}

	input.ApplyDefaults(values, s.config)
	return input.ParseForm(values, s.catalog), client, project, nil
}
