// Package embed converts video sharing links from supported providers into embeddable player URLs.
package embed

import (
	"errors"
	"fmt"
)

// Provider identifies one of the supported video hosting services.
type Provider string

const (
	// ProviderYouTube covers youtube.com, youtu.be and youtube-nocookie.com.
	ProviderYouTube Provider = "youtube"
	// ProviderVimeo covers vimeo.com and player.vimeo.com.
	ProviderVimeo Provider = "vimeo"
	// ProviderTikTok covers tiktok.com video and player links.
	ProviderTikTok Provider = "tiktok"
	// ProviderFacebook covers facebook.com videos, reels and plugin links.
	ProviderFacebook Provider = "facebook"
)

var (
	// ErrNoMatch is returned when the input does not satisfy the provider's URL grammar.
	ErrNoMatch = errors.New("url does not match provider")
	// ErrNoVideoID is returned when the input matches but no video identifier can be located.
	ErrNoVideoID = errors.New("no video ID in url")
	// ErrUnknownProvider is returned for provider names outside the supported set.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Providers returns all supported providers in dispatch order.
func Providers() []Provider {
	return []Provider{ProviderYouTube, ProviderVimeo, ProviderTikTok, ProviderFacebook}
}

// ParseProvider converts a name into a Provider.
func ParseProvider(name string) (Provider, error) {
	p := Provider(name)
	for _, known := range Providers() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// Options is the per-provider configuration record passed to a builder.
// It is implemented only by the option types of this package.
type Options interface {
	// Provider returns the provider the options belong to.
	Provider() Provider
	// SourceURL returns the link that should be embedded.
	SourceURL() string

	sealed()
}

// Adapter recognizes and converts links for a single provider.
type Adapter interface {
	// Provider returns the provider handled by this adapter.
	Provider() Provider

	// IsValid checks if the raw input is a link this adapter can embed.
	IsValid(rawURL string) bool

	// Build produces the embed URL for options of the adapter's own provider.
	Build(opts Options) (string, error)
}

// Bool returns a pointer to b, for options whose presence matters.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for options whose presence matters.
func Int(n int) *int { return &n }
