package i18n

// berneseGermanMessages contains all Bernese Swiss German (Bärndütsch) translations
var berneseGermanMessages = map[string]string{
	// API errors
	"error.no_match":         "Dä Link isch ke unterstützte %s-Video-Link.",
	"error.no_video_id":      "Ha i däm %s-Link ke Video-ID gfunde.",
	"error.unknown_provider": "Dä Video-Aabieter kenne mr nid: %s",
	"error.missing_url":      "Dr url-Parameter bruchts.",
	"error.invalid_body":     "Dr Inhaut vo dr Aafrag cha nid gläse wärde: %s",
	"error.invalid_number":   "Dr %s-Parameter muess e ganzi Zahl sii.",
	"error.rate_limited":     "Z viu Aafrage. Wart bitte e Minute.",
	"error.generic":          "Öppis isch schief gloffe. Probier's haut nomau, bitte.",

	// Status
	"status.ready":     "parat",
	"status.not_ready": "no nid parat",

	// Index page
	"index.title":       "Video-Iibettigs-Dienscht",
	"index.description": "Macht us YouTube-, Vimeo-, TikTok- und Facebook-Links iibettbari Player-URLs.",

	// CLI output
	"cli.no_providers": "Ke Aabieter nimmt dä Link aa.",
	"cli.rejected":     "Ha dä %s-Link nid chönne iibette: %s",
}
