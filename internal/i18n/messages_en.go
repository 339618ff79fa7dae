package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// API errors
	"error.no_match":         "The link is not a supported %s video link.",
	"error.no_video_id":      "No video ID could be found in the %s link.",
	"error.unknown_provider": "Unknown video provider: %s",
	"error.missing_url":      "The url parameter is required.",
	"error.invalid_body":     "The request body could not be read: %s",
	"error.invalid_number":   "The %s parameter must be a whole number.",
	"error.rate_limited":     "Too many requests. Please wait a minute.",
	"error.generic":          "Something went wrong. Please try again.",

	// Status
	"status.ready":     "ready",
	"status.not_ready": "not ready",

	// Index page
	"index.title":       "Video embed service",
	"index.description": "Turns YouTube, Vimeo, TikTok and Facebook links into embeddable player URLs.",

	// CLI output
	"cli.no_providers": "No provider accepts this link.",
	"cli.rejected":     "Could not embed %s link: %s",
}
