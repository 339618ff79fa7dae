package embed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// YouTubeEmbedBaseURL is the standard YouTube player endpoint.
	YouTubeEmbedBaseURL = "https://www.youtube.com/embed/"
	// YouTubeNoCookieEmbedBaseURL is the privacy-enhanced YouTube player endpoint.
	YouTubeNoCookieEmbedBaseURL = "https://www.youtube-nocookie.com/embed/"

	youtubeShortHost = "youtu.be"
	// youtubeHostGroup is the submatch index of the host in youtubeRegex.
	youtubeHostGroup = 3
)

var (
	youtubeRegex = regexp.MustCompile(
		`^((?:https?:)?//)?((?:www|m|music)\.)?(youtube\.com|youtu\.be|youtube-nocookie\.com)` +
			`(/(?:[\w-]+\?v=|embed/|v/)?)([\w-]+)(\S+)?$`)
	youtubeVideoIDRegex = regexp.MustCompile(`(?:v=|shorts/)([-\w]+)`)
)

// YouTubeOptions configures the YouTube player.
type YouTubeOptions struct {
	URL string `json:"url" mapstructure:"url"`

	// AllowFullscreen only has an effect when explicitly false.
	AllowFullscreen   *bool  `json:"allowFullscreen,omitempty" mapstructure:"allowFullscreen"`
	Autoplay          bool   `json:"autoplay,omitempty" mapstructure:"autoplay"`
	CCLanguage        string `json:"ccLanguage,omitempty" mapstructure:"ccLanguage"`
	CCLoadPolicy      bool   `json:"ccLoadPolicy,omitempty" mapstructure:"ccLoadPolicy"`
	Controls          bool   `json:"controls,omitempty" mapstructure:"controls"`
	DisableKBControls bool   `json:"disableKBcontrols,omitempty" mapstructure:"disableKBcontrols"`
	EnableIFrameAPI   bool   `json:"enableIFrameApi,omitempty" mapstructure:"enableIFrameApi"`
	EndTime           int    `json:"endTime,omitempty" mapstructure:"endTime"`
	InterfaceLanguage string `json:"interfaceLanguage,omitempty" mapstructure:"interfaceLanguage"`
	IVLoadPolicy      int    `json:"ivLoadPolicy,omitempty" mapstructure:"ivLoadPolicy"`
	Loop              bool   `json:"loop,omitempty" mapstructure:"loop"`
	ModestBranding    bool   `json:"modestBranding,omitempty" mapstructure:"modestBranding"`
	NoCookie          bool   `json:"nocookie,omitempty" mapstructure:"nocookie"`
	Origin            string `json:"origin,omitempty" mapstructure:"origin"`
	Playlist          string `json:"playlist,omitempty" mapstructure:"playlist"`
	ProgressBarColor  string `json:"progressBarColor,omitempty" mapstructure:"progressBarColor"`
	StartAt           int    `json:"startAt,omitempty" mapstructure:"startAt"`
	// Rel is emitted whenever set, including 0.
	Rel *int `json:"rel,omitempty" mapstructure:"rel"`
}

// DefaultYouTubeOptions returns the player defaults used when nothing is configured.
func DefaultYouTubeOptions() YouTubeOptions {
	return YouTubeOptions{
		AllowFullscreen: Bool(true),
		Controls:        true,
		Rel:             Int(1),
	}
}

// Provider implements Options.
func (o YouTubeOptions) Provider() Provider { return ProviderYouTube }

// SourceURL implements Options.
func (o YouTubeOptions) SourceURL() string { return o.URL }

func (o YouTubeOptions) sealed() {}

// YouTube builds embed URLs for YouTube links.
type YouTube struct{}

// NewYouTube creates a YouTube adapter.
func NewYouTube() *YouTube {
	return &YouTube{}
}

// Provider implements Adapter.
func (y *YouTube) Provider() Provider { return ProviderYouTube }

// IsValid checks if the input is a YouTube watch, short, embed or short-link URL.
func (y *YouTube) IsValid(rawURL string) bool {
	return rawURL != "" && youtubeRegex.MatchString(rawURL)
}

// Build implements Adapter.
func (y *YouTube) Build(opts Options) (string, error) {
	switch o := opts.(type) {
	case YouTubeOptions:
		return y.EmbedURL(o)
	case *YouTubeOptions:
		return y.EmbedURL(*o)
	}
	return "", fmt.Errorf("%w: youtube adapter got %s options", ErrUnknownProvider, opts.Provider())
}

// EmbedURL converts a YouTube link into a player URL.
// Links that already point at the player are returned as they are, without applying opts.
func (y *YouTube) EmbedURL(opts YouTubeOptions) (string, error) {
	rawURL := opts.URL

	m := youtubeRegex.FindStringSubmatch(rawURL)
	if rawURL == "" || m == nil {
		return "", ErrNoMatch
	}

	if strings.Contains(rawURL, "/embed/") {
		return rawURL, nil
	}

	base := YouTubeEmbedBaseURL
	if opts.NoCookie {
		base = YouTubeNoCookieEmbedBaseURL
	}

	// Short links carry only the ID; player parameters are not applied to them.
	if m[youtubeHostGroup] == youtubeShortHost {
		id := shortLinkID(rawURL)
		if id == "" {
			return "", ErrNoVideoID
		}
		return base + id, nil
	}

	idMatch := youtubeVideoIDRegex.FindStringSubmatch(rawURL)
	if len(idMatch) < 2 || idMatch[1] == "" {
		return "", ErrNoVideoID
	}

	return appendParams(base+idMatch[1], youtubeParams(&opts)), nil
}

// VideoID extracts the video identifier from a YouTube link.
func (y *YouTube) VideoID(rawURL string) (string, error) {
	m := youtubeRegex.FindStringSubmatch(rawURL)
	if rawURL == "" || m == nil {
		return "", ErrNoMatch
	}

	if m[youtubeHostGroup] == youtubeShortHost {
		if id := shortLinkID(rawURL); id != "" {
			return id, nil
		}
		return "", ErrNoVideoID
	}

	if i := strings.Index(rawURL, "/embed/"); i >= 0 {
		if id := leadingWordChars(rawURL[i+len("/embed/"):]); id != "" {
			return id, nil
		}
		return "", ErrNoVideoID
	}

	idMatch := youtubeVideoIDRegex.FindStringSubmatch(rawURL)
	if len(idMatch) < 2 || idMatch[1] == "" {
		return "", ErrNoVideoID
	}
	return idMatch[1], nil
}

func youtubeParams(o *YouTubeOptions) []string {
	var params []string

	if o.AllowFullscreen != nil && !*o.AllowFullscreen {
		params = append(params, "fs=0")
	}
	if o.Autoplay {
		params = append(params, "autoplay=1")
	}
	if o.CCLanguage != "" {
		params = append(params, "cc_lang_pref="+o.CCLanguage)
	}
	if o.CCLoadPolicy {
		params = append(params, "cc_load_policy=1")
	}
	if !o.Controls {
		params = append(params, "controls=0")
	}
	if o.DisableKBControls {
		params = append(params, "disablekb=1")
	}
	if o.EnableIFrameAPI {
		params = append(params, "enablejsapi=1")
	}
	if o.EndTime != 0 {
		params = append(params, "end="+strconv.Itoa(o.EndTime))
	}
	if o.InterfaceLanguage != "" {
		params = append(params, "hl="+o.InterfaceLanguage)
	}
	if o.IVLoadPolicy != 0 {
		params = append(params, "iv_load_policy="+strconv.Itoa(o.IVLoadPolicy))
	}
	if o.Loop {
		params = append(params, "loop=1")
	}
	if o.ModestBranding {
		params = append(params, "modestbranding=1")
	}
	if o.Origin != "" {
		params = append(params, "origin="+o.Origin)
	}
	if o.Playlist != "" {
		params = append(params, "playlist="+o.Playlist)
	}
	if o.StartAt != 0 {
		params = append(params, "start="+strconv.Itoa(o.StartAt))
	}
	if o.ProgressBarColor != "" {
		params = append(params, "color="+o.ProgressBarColor)
	}
	if o.Rel != nil {
		params = append(params, "rel="+strconv.Itoa(*o.Rel))
	}

	return params
}

// shortLinkID returns the last path segment of a youtu.be link, ignoring query and fragment.
func shortLinkID(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	return rawURL[strings.LastIndex(rawURL, "/")+1:]
}

func leadingWordChars(s string) string {
	end := 0
	for end < len(s) && isWordOrHyphen(s[end]) {
		end++
	}
	return s[:end]
}

func isWordOrHyphen(c byte) bool {
	return c == '-' || c == '_' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
