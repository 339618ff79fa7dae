package embed

import (
	"fmt"
)

// Resolver dispatches to the adapter registered for each provider.
type Resolver struct {
	adapters map[Provider]Adapter
}

// NewResolver creates a resolver with all supported adapters.
func NewResolver() *Resolver {
	return &Resolver{
		adapters: map[Provider]Adapter{
			ProviderYouTube:  NewYouTube(),
			ProviderVimeo:    NewVimeo(),
			ProviderTikTok:   NewTikTok(),
			ProviderFacebook: NewFacebook(),
		},
	}
}

// Adapter returns the adapter for a provider.
func (r *Resolver) Adapter(p Provider) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, string(p))
	}
	return a, nil
}

// IsValid checks the input against a single provider's grammar.
func (r *Resolver) IsValid(p Provider, rawURL string) bool {
	a, ok := r.adapters[p]
	return ok && a.IsValid(rawURL)
}

// Detect returns every provider whose grammar accepts the input, in dispatch order.
func (r *Resolver) Detect(rawURL string) []Provider {
	var matched []Provider
	for _, p := range Providers() {
		if r.adapters[p].IsValid(rawURL) {
			matched = append(matched, p)
		}
	}
	return matched
}

// EmbedURL builds the embed URL with the adapter selected by the options' provider.
func (r *Resolver) EmbedURL(opts Options) (string, error) {
	if opts == nil {
		return "", ErrNoMatch
	}
	a, err := r.Adapter(opts.Provider())
	if err != nil {
		return "", err
	}
	return a.Build(opts)
}
