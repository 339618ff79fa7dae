package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"videoembed/internal/core"
	"videoembed/pkg/embed"
	"videoembed/pkg/text"
)

const serviceName = "videoembed"

type statusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProvidersResponse lists the supported providers.
type ProvidersResponse struct {
	Providers []embed.Provider `json:"providers"`
}

// ValidateResponse is the result of checking a link.
type ValidateResponse struct {
	URL       string           `json:"url"`
	Valid     bool             `json:"valid"`
	Providers []embed.Provider `json:"providers"`
}

// BuildResponse is the embed URL built from explicit options.
type BuildResponse struct {
	Provider embed.Provider `json:"provider"`
	EmbedURL string         `json:"embed_url"`
}

// ScanResponse lists the embeddable links found in pasted text.
type ScanResponse struct {
	Matches []text.Match `json:"matches"`
}

// handleProviders handles GET /api/v1/providers
func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ProvidersResponse{Providers: s.service.Providers()})
}

// handleValidate handles GET /api/v1/validate?url=...[&provider=...]
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rawURL := query.Get("url")
	if rawURL == "" {
		s.writeError(w, r, http.StatusBadRequest, "MISSING_URL", "error.missing_url")
		return
	}

	resp := ValidateResponse{URL: rawURL, Providers: []embed.Provider{}}

	if name := query.Get("provider"); name != "" {
		provider, err := embed.ParseProvider(name)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "UNKNOWN_PROVIDER", "error.unknown_provider", name)
			return
		}
		if s.service.Validate(provider, rawURL) {
			resp.Valid = true
			resp.Providers = append(resp.Providers, provider)
		}
	} else if detected := s.service.Detect(rawURL); len(detected) > 0 {
		resp.Valid = true
		resp.Providers = detected
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleResolve handles GET /api/v1/embed/{provider}?url=...&start=...&width=...&height=...
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	provider, ok := s.pathProvider(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	attrs := core.NodeAttrs{Src: query.Get("url")}
	if attrs.Src == "" {
		s.writeError(w, r, http.StatusBadRequest, "MISSING_URL", "error.missing_url")
		return
	}

	for _, field := range []struct {
		name  string
		value *int
	}{
		{"start", &attrs.Start},
		{"width", &attrs.Width},
		{"height", &attrs.Height},
	} {
		raw := query.Get(field.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, http.StatusBadRequest, "INVALID_NUMBER", "error.invalid_number", field.name)
			return
		}
		*field.value = n
	}

	resolution, err := s.service.Resolve(r.Context(), provider, attrs)
	if err != nil {
		s.writeResolveError(w, r, provider, err)
		return
	}

	writeJSON(w, http.StatusOK, resolution)
}

// handleBuild handles POST /api/v1/embed/{provider} with the provider's options as JSON.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	provider, ok := s.pathProvider(w, r)
	if !ok {
		return
	}

	opts := newOptions(provider)

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(opts); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "error.invalid_body", err.Error())
		return
	}
	if opts.SourceURL() == "" {
		s.writeError(w, r, http.StatusBadRequest, "MISSING_URL", "error.missing_url")
		return
	}

	embedURL, err := s.service.Build(r.Context(), opts)
	if err != nil {
		s.writeResolveError(w, r, provider, err)
		return
	}

	writeJSON(w, http.StatusOK, BuildResponse{Provider: provider, EmbedURL: embedURL})
}

// handleScan handles POST /api/v1/scan with pasted text or, for text/html, an HTML fragment as the body.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "error.invalid_body", err.Error())
		return
	}

	var matches []text.Match
	if text.IsHTML(r.Header.Get("Content-Type")) {
		matches, err = s.scanner.ScanHTML(bytes.NewReader(body))
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "error.invalid_body", err.Error())
			return
		}
	} else {
		matches = s.scanner.Scan(string(body))
	}
	if matches == nil {
		matches = []text.Match{}
	}
	writeJSON(w, http.StatusOK, ScanResponse{Matches: matches})
}

func (s *Server) pathProvider(w http.ResponseWriter, r *http.Request) (embed.Provider, bool) {
	name := r.PathValue("provider")
	provider, err := embed.ParseProvider(name)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, "UNKNOWN_PROVIDER", "error.unknown_provider", name)
		return "", false
	}
	return provider, true
}

// newOptions returns a pointer to the zero options record of a provider.
func newOptions(provider embed.Provider) embed.Options {
	switch provider {
	case embed.ProviderVimeo:
		return &embed.VimeoOptions{}
	case embed.ProviderTikTok:
		return &embed.TikTokOptions{}
	case embed.ProviderFacebook:
		return &embed.FacebookOptions{}
	default:
		return &embed.YouTubeOptions{}
	}
}

func (s *Server) writeResolveError(w http.ResponseWriter, r *http.Request, provider embed.Provider, err error) {
	switch {
	case errors.Is(err, embed.ErrNoMatch):
		s.writeError(w, r, http.StatusUnprocessableEntity, "NO_MATCH", "error.no_match", provider)
	case errors.Is(err, embed.ErrNoVideoID):
		s.writeError(w, r, http.StatusUnprocessableEntity, "NO_VIDEO_ID", "error.no_video_id", provider)
	case errors.Is(err, embed.ErrUnknownProvider):
		s.writeError(w, r, http.StatusNotFound, "UNKNOWN_PROVIDER", "error.unknown_provider", provider)
	default:
		s.logger.Warn("Failed to resolve embed URL",
			zap.String("provider", string(provider)),
			zap.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, "INTERNAL", "error.generic")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, key string, args ...interface{}) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: s.localizerFor(r).T(key, args...),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
