package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/processing"
	"mercator-hq/pricebook/pkg/processing/costs"
)

// EstimateRequest is the body of POST /v1/estimate. Prompt and Response are
// a string or an array of message strings.
type EstimateRequest struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Version  string      `json:"version"`
	Prompt   interface{} `json:"prompt"`
	Response interface{} `json:"response"`
	Usage    string      `json:"usage,omitempty"`
}

// CompareRequest is the body of POST /v1/compare.
type CompareRequest struct {
	Prompt   interface{} `json:"prompt"`
	Response interface{} `json:"response"`
	Usage    string      `json:"usage,omitempty"`
}

// CompareResponse is the body returned by POST /v1/compare.
type CompareResponse struct {
	Rows []costs.Row `json:"rows"`
}

// TiersRequest is the body of POST /v1/tiers. TotalTokens takes precedence
// over Prompt and Response when set.
type TiersRequest struct {
	Provider    string      `json:"provider"`
	TotalTokens *int        `json:"total_tokens,omitempty"`
	Prompt      interface{} `json:"prompt,omitempty"`
	Response    interface{} `json:"response,omitempty"`
}

// CatalogResponse is the body returned by GET /v1/catalog.
type CatalogResponse struct {
	SchemaVersion string                  `json:"schema_version"`
	Entries       []catalog.ModelEntry    `json:"entries"`
	UsageProfiles []catalog.UsageProfile  `json:"usage_profiles"`
	VolumeRates   []catalog.ProviderRates `json:"volume_rates"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.processor.Catalog()
	writeJSON(w, http.StatusOK, CatalogResponse{
		SchemaVersion: cat.SchemaVersion(),
		Entries:       cat.Entries(),
		UsageProfiles: cat.UsageProfiles(),
		VolumeRates:   cat.AllRates(),
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if !s.decode(w, r, &req) {
		return
	}

	est, err := s.processor.Estimate(r.Context(), processing.EstimateRequest{
		Key:      catalog.Key{Provider: req.Provider, Model: req.Model, Version: req.Version},
		Prompt:   req.Prompt,
		Response: req.Response,
		Usage:    req.Usage,
	})
	if err != nil {
		writeEngineError(w, err, est)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !s.decode(w, r, &req) {
		return
	}

	rows, err := s.processor.Compare(r.Context(), processing.CompareRequest{
		Prompt:   req.Prompt,
		Response: req.Response,
		Usage:    req.Usage,
	})
	if err != nil {
		writeEngineError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{Rows: rows})
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	var req TiersRequest
	if !s.decode(w, r, &req) {
		return
	}

	quote, err := s.processor.ResolveTier(r.Context(), processing.TierRequest{
		Provider:    req.Provider,
		TotalTokens: req.TotalTokens,
		Prompt:      req.Prompt,
		Response:    req.Response,
	})
	if err != nil {
		writeEngineError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// handleIngest reads the multipart field "file" as a stream. Parts are never
// spooled to temporary files.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, TypeInvalidRequest, "expected a multipart/form-data upload", nil)
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			writeError(w, TypeInvalidRequest, `missing form field "file"`, nil)
			return
		}
		if err != nil {
			writeError(w, TypeInvalidRequest, fmt.Sprintf("invalid multipart body: %v", err), nil)
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		result, err := s.processor.Ingest(r.Context(), part.FileName(), part)
		_ = part.Close()
		if err != nil {
			writeEngineError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, TypeInvalidRequest, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), nil)
			return false
		}
		writeError(w, TypeInvalidRequest, fmt.Sprintf("invalid JSON body: %v", err), nil)
		return false
	}
	return true
}

// maxBodyBytes leaves room for multipart and JSON framing around the
// ingest limit.
func (s *Server) maxBodyBytes() int64 {
	return s.maxBytes + 64<<10
}
