package embed

import (
	"fmt"
	"regexp"
	"strconv"
)

// TikTokPlayerBaseURL is the TikTok embed player endpoint.
const TikTokPlayerBaseURL = "https://www.tiktok.com/player/v1/"

// TikTok links come as https://www.tiktok.com/@username/video/<id>
// or https://www.tiktok.com/player/v1/<id>.
var (
	tiktokRegex        = regexp.MustCompile(`^(https?://)?(www\.)?tiktok\.com/((@[^/]+/video/\d+)|(player/v1/\d+))`)
	tiktokVideoIDRegex = regexp.MustCompile(`^(?:https?://)?(?:www\.)?tiktok\.com/(?:@[^/]+/video/|player/v1/)(\d+)`)
)

// TikTokOptions configures the TikTok player.
type TikTokOptions struct {
	URL string `json:"url" mapstructure:"url"`

	AllowFullscreen   bool `json:"allowFullscreen,omitempty" mapstructure:"allowFullscreen"`
	Autoplay          bool `json:"autoplay,omitempty" mapstructure:"autoplay"`
	Controls          bool `json:"controls,omitempty" mapstructure:"controls"`
	Loop              bool `json:"loop,omitempty" mapstructure:"loop"`
	// Rel is emitted whenever set, including 0.
	Rel               *int `json:"rel,omitempty" mapstructure:"rel"`
	MusicInfo         bool `json:"musicInfo,omitempty" mapstructure:"musicInfo"`
	NativeContextMenu bool `json:"nativeContextMenu,omitempty" mapstructure:"nativeContextMenu"`
	ClosedCaptions    bool `json:"closedCaptions,omitempty" mapstructure:"closedCaptions"`
}

// DefaultTikTokOptions returns the player defaults used when nothing is configured.
func DefaultTikTokOptions() TikTokOptions {
	return TikTokOptions{
		AllowFullscreen: true,
		Controls:        true,
		Rel:             Int(0),
	}
}

// Provider implements Options.
func (o TikTokOptions) Provider() Provider { return ProviderTikTok }

// SourceURL implements Options.
func (o TikTokOptions) SourceURL() string { return o.URL }

func (o TikTokOptions) sealed() {}

// TikTok builds embed URLs for TikTok links.
type TikTok struct{}

// NewTikTok creates a TikTok adapter.
func NewTikTok() *TikTok {
	return &TikTok{}
}

// Provider implements Adapter.
func (t *TikTok) Provider() Provider { return ProviderTikTok }

// IsValid checks if the input is a TikTok video or player link.
func (t *TikTok) IsValid(rawURL string) bool {
	return tiktokRegex.MatchString(rawURL)
}

// Build implements Adapter.
func (t *TikTok) Build(opts Options) (string, error) {
	switch o := opts.(type) {
	case TikTokOptions:
		return t.EmbedURL(o)
	case *TikTokOptions:
		return t.EmbedURL(*o)
	}
	return "", fmt.Errorf("%w: tiktok adapter got %s options", ErrUnknownProvider, opts.Provider())
}

// VideoID extracts the numeric video identifier from a TikTok link.
func (t *TikTok) VideoID(rawURL string) (string, error) {
	if !t.IsValid(rawURL) {
		return "", ErrNoMatch
	}
	m := tiktokVideoIDRegex.FindStringSubmatch(rawURL)
	if len(m) < 2 || m[1] == "" {
		return "", ErrNoVideoID
	}
	return m[1], nil
}

// EmbedURL converts a TikTok link into a player URL.
func (t *TikTok) EmbedURL(opts TikTokOptions) (string, error) {
	id, err := t.VideoID(opts.URL)
	if err != nil {
		return "", err
	}

	return appendParams(TikTokPlayerBaseURL+id, tiktokParams(&opts)), nil
}

func tiktokParams(o *TikTokOptions) []string {
	var params []string

	if o.Autoplay {
		params = append(params, "autoplay=1")
	}
	if o.Loop {
		params = append(params, "loop=1")
	}
	if o.Rel != nil {
		params = append(params, "rel="+strconv.Itoa(*o.Rel))
	}
	if !o.AllowFullscreen {
		params = append(params, "fullscreen_button=0")
	}
	if !o.Controls {
		params = append(params, "controls=0")
	}
	if !o.MusicInfo {
		params = append(params, "music_info=0")
	}
	if !o.NativeContextMenu {
		params = append(params, "native_context_menu=0")
	}
	if !o.ClosedCaptions {
		params = append(params, "closed_captions=0")
	}

	return params
}
