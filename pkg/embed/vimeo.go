package embed

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	// VimeoPlayerBaseURL is the Vimeo player endpoint.
	VimeoPlayerBaseURL = "https://player.vimeo.com/video/"

	// vimeoIDGroup is the submatch index of the numeric ID in vimeoRegex.
	vimeoIDGroup = 5
)

var vimeoRegex = regexp.MustCompile(
	`^(https?://)?(www\.)?(vimeo\.com/(video/)?|player\.vimeo\.com/video/)(\d+)(\?.*)?$`)

// VimeoOptions configures the Vimeo player.
//
// Most toggles are inverted: a false (or absent) value turns the feature off
// and emits the matching "=0" parameter.
type VimeoOptions struct {
	URL string `json:"url" mapstructure:"url"`

	AllowFullscreen bool `json:"allowFullscreen,omitempty" mapstructure:"allowFullscreen"`
	Autoplay        bool `json:"autoplay,omitempty" mapstructure:"autoplay"`
	Controls        bool `json:"controls,omitempty" mapstructure:"controls"`
	Loop            bool `json:"loop,omitempty" mapstructure:"loop"`
	ClosedCaptions  bool `json:"closedCaptions,omitempty" mapstructure:"closedCaptions"`
	EndTime         int  `json:"endTime,omitempty" mapstructure:"endTime"`
	StartTime       int  `json:"startTime,omitempty" mapstructure:"startTime"`
	ShowLogo        bool `json:"showLogo,omitempty" mapstructure:"showLogo"`
	Responsive      bool `json:"responsive,omitempty" mapstructure:"responsive"`
	Title           bool `json:"title,omitempty" mapstructure:"title"`
	Byline          bool `json:"byline,omitempty" mapstructure:"byline"`
	Portrait        bool `json:"portrait,omitempty" mapstructure:"portrait"`
}

// DefaultVimeoOptions returns the player defaults used when nothing is configured.
func DefaultVimeoOptions() VimeoOptions {
	return VimeoOptions{
		AllowFullscreen: true,
		Controls:        true,
		Responsive:      true,
	}
}

// Provider implements Options.
func (o VimeoOptions) Provider() Provider { return ProviderVimeo }

// SourceURL implements Options.
func (o VimeoOptions) SourceURL() string { return o.URL }

func (o VimeoOptions) sealed() {}

// Vimeo builds embed URLs for Vimeo links.
type Vimeo struct{}

// NewVimeo creates a Vimeo adapter.
func NewVimeo() *Vimeo {
	return &Vimeo{}
}

// Provider implements Adapter.
func (v *Vimeo) Provider() Provider { return ProviderVimeo }

// IsValid checks if the input is a vimeo.com or player.vimeo.com video link.
func (v *Vimeo) IsValid(rawURL string) bool {
	return vimeoRegex.MatchString(rawURL)
}

// Build implements Adapter.
func (v *Vimeo) Build(opts Options) (string, error) {
	switch o := opts.(type) {
	case VimeoOptions:
		return v.EmbedURL(o)
	case *VimeoOptions:
		return v.EmbedURL(*o)
	}
	return "", fmt.Errorf("%w: vimeo adapter got %s options", ErrUnknownProvider, opts.Provider())
}

// VideoID extracts the numeric video identifier from a Vimeo link.
func (v *Vimeo) VideoID(rawURL string) (string, error) {
	m := vimeoRegex.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrNoMatch
	}
	if m[vimeoIDGroup] == "" {
		return "", ErrNoVideoID
	}
	return m[vimeoIDGroup], nil
}

// EmbedURL converts a Vimeo link into a player URL.
func (v *Vimeo) EmbedURL(opts VimeoOptions) (string, error) {
	id, err := v.VideoID(opts.URL)
	if err != nil {
		return "", err
	}

	return appendParams(VimeoPlayerBaseURL+id, vimeoParams(&opts)), nil
}

func vimeoParams(o *VimeoOptions) []string {
	var params []string

	if !o.AllowFullscreen {
		params = append(params, "fullscreen=0")
	}
	if o.Autoplay {
		params = append(params, "autoplay=1")
	}
	if !o.Controls {
		params = append(params, "controls=0")
	}
	if o.Loop {
		params = append(params, "loop=1")
	}
	if !o.ClosedCaptions {
		params = append(params, "cc=0")
	}
	if o.EndTime != 0 {
		params = append(params, "end_time="+strconv.Itoa(o.EndTime))
	}
	if o.StartTime != 0 {
		params = append(params, "start_time="+strconv.Itoa(o.StartTime))
	}
	if !o.ShowLogo {
		params = append(params, "vimeo_logo=0")
	}
	if o.Responsive {
		params = append(params, "responsive=1")
	}
	if !o.Title {
		params = append(params, "title=0")
	}
	if !o.Byline {
		params = append(params, "byline=0")
	}
	if !o.Portrait {
		params = append(params, "portrait=0")
	}

	return params
}
