// Package core resolves stored embed nodes into player URLs.
package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"videoembed/internal/store"
	"videoembed/pkg/embed"
)

// Resolution outcomes reported to the Recorder.
const (
	OutcomeResolved  = "resolved"
	OutcomeCached    = "cached"
	OutcomeRejected  = "rejected"
	OutcomeNoVideoID = "no_video_id"
	OutcomeError     = "error"
)

// NodeAttrs are the attributes stored on an embed node in a document.
type NodeAttrs struct {
	Src    string `json:"src"`
	Start  int    `json:"start,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Resolution is a node rendered to a player URL.
type Resolution struct {
	Provider embed.Provider `json:"provider"`
	EmbedURL string         `json:"embed_url"`
	Width    int            `json:"width,omitempty"`
	Height   int            `json:"height,omitempty"`
	Cached   bool           `json:"cached"`
}

// Recorder receives resolution counters.
type Recorder interface {
	RecordResolution(provider, outcome string)
	RecordCacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordResolution(string, string) {}
func (nopRecorder) RecordCacheLookup(bool)          {}

// Service merges node attributes over the configured provider defaults and builds embed URLs.
type Service struct {
	resolver *embed.Resolver
	defaults EmbedConfig
	cache    *store.ResultCache
	recorder Recorder
	logger   *zap.Logger
}

// NewService creates a Service. cache and recorder may be nil.
func NewService(defaults EmbedConfig, cache *store.ResultCache, recorder Recorder, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		resolver: embed.NewResolver(),
		defaults: defaults,
		cache:    cache,
		recorder: recorder,
		logger:   logger.Named("resolver"),
	}
}

// Providers returns the supported providers.
func (s *Service) Providers() []embed.Provider {
	return embed.Providers()
}

// Validate checks a pasted link against one provider.
func (s *Service) Validate(provider embed.Provider, rawURL string) bool {
	return s.resolver.IsValid(provider, rawURL)
}

// Detect returns every provider that accepts the link.
func (s *Service) Detect(rawURL string) []embed.Provider {
	return s.resolver.Detect(rawURL)
}

// Resolve renders a node of the given provider to its embed URL.
func (s *Service) Resolve(ctx context.Context, provider embed.Provider, attrs NodeAttrs) (*Resolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts, err := s.options(provider, attrs)
	if err != nil {
		s.recorder.RecordResolution(string(provider), OutcomeError)
		return nil, err
	}

	width, height := attrs.Width, attrs.Height
	if f, ok := opts.(embed.FacebookOptions); ok {
		width, height = f.Width, f.Height
	}

	key := cacheKey(provider, attrs)
	if s.cache != nil {
		if s.cache.IsRejected(key) {
			s.recorder.RecordCacheLookup(true)
			s.recorder.RecordResolution(string(provider), OutcomeRejected)
			return nil, embed.ErrNoMatch
		}
		if cached, ok := s.cache.Get(key); ok {
			s.recorder.RecordCacheLookup(true)
			s.recorder.RecordResolution(string(provider), OutcomeCached)
			return &Resolution{Provider: provider, EmbedURL: cached, Width: width, Height: height, Cached: true}, nil
		}
		s.recorder.RecordCacheLookup(false)
	}

	embedURL, err := s.resolver.EmbedURL(opts)
	if err != nil {
		s.recordFailure(provider, key, attrs.Src, err)
		return nil, err
	}

	if s.cache != nil {
		s.cache.Put(key, embedURL)
	}
	s.recorder.RecordResolution(string(provider), OutcomeResolved)
	s.logger.Debug("Resolved embed URL",
		zap.String("provider", string(provider)),
		zap.String("src", attrs.Src),
		zap.String("embed_url", embedURL))

	return &Resolution{Provider: provider, EmbedURL: embedURL, Width: width, Height: height}, nil
}

// Build converts fully specified options without applying configured defaults or caching.
func (s *Service) Build(ctx context.Context, opts embed.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if opts == nil {
		return "", embed.ErrNoMatch
	}

	provider := opts.Provider()
	embedURL, err := s.resolver.EmbedURL(opts)
	if err != nil {
		s.recordFailure(provider, "", opts.SourceURL(), err)
		return "", err
	}

	s.recorder.RecordResolution(string(provider), OutcomeResolved)
	return embedURL, nil
}

func (s *Service) recordFailure(provider embed.Provider, key, src string, err error) {
	switch {
	case errors.Is(err, embed.ErrNoMatch):
		if s.cache != nil && key != "" {
			s.cache.Reject(key)
		}
		s.recorder.RecordResolution(string(provider), OutcomeRejected)
	case errors.Is(err, embed.ErrNoVideoID):
		s.recorder.RecordResolution(string(provider), OutcomeNoVideoID)
	default:
		s.recorder.RecordResolution(string(provider), OutcomeError)
	}
	s.logger.Debug("Embed URL rejected",
		zap.String("provider", string(provider)),
		zap.String("src", src),
		zap.Error(err))
}

// options merges node attributes over the provider's configured defaults.
func (s *Service) options(provider embed.Provider, attrs NodeAttrs) (embed.Options, error) {
	switch provider {
	case embed.ProviderYouTube:
		o := s.defaults.YouTube
		o.URL = attrs.Src
		if attrs.Start > 0 {
			o.StartAt = attrs.Start
		}
		return o, nil
	case embed.ProviderVimeo:
		o := s.defaults.Vimeo
		o.URL = attrs.Src
		if attrs.Start > 0 {
			o.StartTime = attrs.Start
		}
		return o, nil
	case embed.ProviderTikTok:
		o := s.defaults.TikTok
		o.URL = attrs.Src
		return o, nil
	case embed.ProviderFacebook:
		o := s.defaults.Facebook
		o.URL = attrs.Src
		if attrs.Width > 0 {
			o.Width = attrs.Width
		}
		if attrs.Height > 0 {
			o.Height = attrs.Height
		}
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q", embed.ErrUnknownProvider, string(provider))
}

func cacheKey(provider embed.Provider, attrs NodeAttrs) string {
	return strings.Join([]string{
		string(provider),
		attrs.Src,
		strconv.Itoa(attrs.Start),
		strconv.Itoa(attrs.Width),
		strconv.Itoa(attrs.Height),
	}, "\x00")
}
