package embed

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// FacebookPluginURL is the Facebook video plugin endpoint used for embedding.
	FacebookPluginURL = "https://www.facebook.com/plugins/video.php"

	facebookPluginHost = "www.facebook.com"
	facebookPluginPath = "/plugins/video.php"
)

var (
	facebookRegex          = regexp.MustCompile(`^(https?://)?(www\.)?facebook\.com/.+/(videos|reel)/\d+`)
	facebookPluginURLRegex = regexp.MustCompile(`^(https?://)?(www\.)?facebook\.com/plugins/video\.php`)
)

// FacebookOptions configures the Facebook video plugin.
type FacebookOptions struct {
	URL string `json:"url" mapstructure:"url"`

	ShowText bool `json:"showText,omitempty" mapstructure:"showText"`
	Width    int  `json:"width,omitempty" mapstructure:"width"`
	Height   int  `json:"height,omitempty" mapstructure:"height"`
}

// DefaultFacebookOptions returns the plugin defaults used when nothing is configured.
func DefaultFacebookOptions() FacebookOptions {
	return FacebookOptions{
		Width:  640,
		Height: 480,
	}
}

// Provider implements Options.
func (o FacebookOptions) Provider() Provider { return ProviderFacebook }

// SourceURL implements Options.
func (o FacebookOptions) SourceURL() string { return o.URL }

func (o FacebookOptions) sealed() {}

// Facebook builds plugin URLs for Facebook videos and reels.
type Facebook struct{}

// NewFacebook creates a Facebook adapter.
func NewFacebook() *Facebook {
	return &Facebook{}
}

// Provider implements Adapter.
func (f *Facebook) Provider() Provider { return ProviderFacebook }

// IsValid checks if the input is a Facebook video or reel link, either directly
// or wrapped in Facebook's own video plugin URL.
func (f *Facebook) IsValid(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	if facebookRegex.MatchString(rawURL) {
		return true
	}
	_, ok := f.UnwrapPluginURL(rawURL)
	return ok
}

// Build implements Adapter.
func (f *Facebook) Build(opts Options) (string, error) {
	switch o := opts.(type) {
	case FacebookOptions:
		return f.EmbedURL(o)
	case *FacebookOptions:
		return f.EmbedURL(*o)
	}
	return "", fmt.Errorf("%w: facebook adapter got %s options", ErrUnknownProvider, opts.Provider())
}

// UnwrapPluginURL recovers the original video link from a plugin URL such as
// https://www.facebook.com/plugins/video.php?href=<encoded link>.
// It reports false for anything that is not a well-formed plugin URL wrapping a video link.
func (f *Facebook) UnwrapPluginURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	if strings.ToLower(u.Hostname()) != facebookPluginHost || u.Path != facebookPluginPath {
		return "", false
	}

	href := u.Query().Get("href")
	if href == "" {
		return "", false
	}

	decoded, err := decodeURIComponent(href)
	if err != nil {
		return "", false
	}

	if !facebookRegex.MatchString(decoded) {
		return "", false
	}
	return decoded, true
}

// SourceURL returns the canonical video link for a valid input, unwrapping plugin URLs.
func (f *Facebook) SourceURL(rawURL string) (string, error) {
	if !f.IsValid(rawURL) {
		return "", ErrNoMatch
	}

	if facebookPluginURLRegex.MatchString(rawURL) {
		if unwrapped, ok := f.UnwrapPluginURL(rawURL); ok {
			return unwrapped, nil
		}
	}
	return rawURL, nil
}

// EmbedURL converts a Facebook video link into a plugin URL.
func (f *Facebook) EmbedURL(opts FacebookOptions) (string, error) {
	source, err := f.SourceURL(opts.URL)
	if err != nil {
		return "", err
	}

	params := []string{"href=" + encodeURIComponent(source)}

	if !opts.ShowText {
		params = append(params, "show_text=0")
	}
	if opts.Width != 0 {
		params = append(params, "width="+strconv.Itoa(opts.Width))
	}
	if opts.Height != 0 {
		params = append(params, "height="+strconv.Itoa(opts.Height))
	}

	return appendParams(FacebookPluginURL, params), nil
}
