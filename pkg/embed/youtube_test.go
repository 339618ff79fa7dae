package embed

import (
	"errors"
	"testing"
)

func TestYouTube_IsValid(t *testing.T) {
	adapter := NewYouTube()

	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{
			name:     "Short link",
			url:      "https://youtu.be/dQw4w9WgXcQ",
			expected: true,
		},
		{
			name:     "Standard watch URL",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: true,
		},
		{
			name:     "YouTube Music URL",
			url:      "https://music.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: true,
		},
		{
			name:     "Mobile URL",
			url:      "https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=10",
			expected: true,
		},
		{
			name:     "Nocookie embed URL",
			url:      "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ",
			expected: true,
		},
		{
			name:     "Protocol-relative legacy URL",
			url:      "//youtube.com/v/dQw4w9WgXcQ",
			expected: true,
		},
		{
			name:     "Shorts URL without scheme",
			url:      "youtube.com/shorts/abc-_123",
			expected: true,
		},
		{
			name:     "Missing video segment",
			url:      "https://www.youtube.com/",
			expected: false,
		},
		{
			name:     "Trailing text after URL",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ please",
			expected: false,
		},
		{
			name:     "Uppercase host",
			url:      "https://WWW.YOUTUBE.COM/watch?v=dQw4w9WgXcQ",
			expected: false,
		},
		{
			name:     "Unsupported scheme",
			url:      "ftp://youtube.com/watch?v=dQw4w9WgXcQ",
			expected: false,
		},
		{
			name:     "Other host",
			url:      "https://example.com/watch?v=dQw4w9WgXcQ",
			expected: false,
		},
		{
			name:     "Empty string",
			url:      "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := adapter.IsValid(tt.url)
			if result != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.url, result, tt.expected)
			}
		})
	}
}

func TestYouTube_EmbedURL(t *testing.T) {
	adapter := NewYouTube()

	allOptions := YouTubeOptions{
		URL:               "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		AllowFullscreen:   Bool(false),
		Autoplay:          true,
		CCLanguage:        "en",
		CCLoadPolicy:      true,
		Controls:          false,
		DisableKBControls: true,
		EnableIFrameAPI:   true,
		EndTime:           120,
		InterfaceLanguage: "de",
		IVLoadPolicy:      3,
		Loop:              true,
		ModestBranding:    true,
		Origin:            "https://example.com",
		Playlist:          "PL123",
		StartAt:           30,
		ProgressBarColor:  "white",
		Rel:               Int(0),
	}

	tests := []struct {
		name     string
		opts     YouTubeOptions
		expected string
	}{
		{
			name:     "Short link",
			opts:     YouTubeOptions{URL: "https://youtu.be/dQw4w9WgXcQ"},
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "Short link ignores player parameters",
			opts:     YouTubeOptions{URL: "https://youtu.be/dQw4w9WgXcQ", Autoplay: true, Loop: true},
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "Short link with tracking query",
			opts:     YouTubeOptions{URL: "https://youtu.be/dQw4w9WgXcQ?si=abcdef"},
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "Short link on nocookie host",
			opts:     YouTubeOptions{URL: "youtu.be/dQw4w9WgXcQ", NoCookie: true},
			expected: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "Watch URL with zero options hides controls",
			opts:     YouTubeOptions{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ?controls=0",
		},
		{
			name: "Watch URL with defaults",
			opts: func() YouTubeOptions {
				o := DefaultYouTubeOptions()
				o.URL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
				return o
			}(),
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ?rel=1",
		},
		{
			name: "Every parameter in fixed order",
			opts: allOptions,
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ?fs=0&autoplay=1&cc_lang_pref=en&cc_load_policy=1" +
				"&controls=0&disablekb=1&enablejsapi=1&end=120&hl=de&iv_load_policy=3&loop=1&modestbranding=1" +
				"&origin=https://example.com&playlist=PL123&start=30&color=white&rel=0",
		},
		{
			name:     "Shorts URL",
			opts:     YouTubeOptions{URL: "https://www.youtube.com/shorts/abc-_123", Controls: true},
			expected: "https://www.youtube.com/embed/abc-_123",
		},
		{
			name:     "Nocookie with start time",
			opts:     YouTubeOptions{URL: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", Controls: true, NoCookie: true, StartAt: 42},
			expected: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ?start=42",
		},
		{
			name:     "Fullscreen explicitly allowed is omitted",
			opts:     YouTubeOptions{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Controls: true, AllowFullscreen: Bool(true)},
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := adapter.EmbedURL(tt.opts)
			if err != nil {
				t.Fatalf("EmbedURL() unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("EmbedURL() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestYouTube_EmbedURL_AlreadyEmbedded(t *testing.T) {
	adapter := NewYouTube()
	embedded := "https://www.youtube.com/embed/dQw4w9WgXcQ?start=5"

	optionSets := []YouTubeOptions{
		{URL: embedded},
		{URL: embedded, Autoplay: true, Loop: true, NoCookie: true, Rel: Int(0)},
		func() YouTubeOptions {
			o := DefaultYouTubeOptions()
			o.URL = embedded
			return o
		}(),
	}

	for i, opts := range optionSets {
		result, err := adapter.EmbedURL(opts)
		if err != nil {
			t.Fatalf("EmbedURL() case %d unexpected error: %v", i, err)
		}
		if result != embedded {
			t.Errorf("EmbedURL() case %d = %q, want %q", i, result, embedded)
		}
	}
}

func TestYouTube_EmbedURL_Errors(t *testing.T) {
	adapter := NewYouTube()

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{
			name:    "Empty input",
			url:     "",
			wantErr: ErrNoMatch,
		},
		{
			name:    "Malformed host",
			url:     "https://youtube.co/watch?v=dQw4w9WgXcQ",
			wantErr: ErrNoMatch,
		},
		{
			name:    "Legacy path without v parameter",
			url:     "https://www.youtube.com/v/dQw4w9WgXcQ",
			wantErr: ErrNoVideoID,
		},
		{
			name:    "Channel page",
			url:     "https://www.youtube.com/channel/UC123",
			wantErr: ErrNoVideoID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := adapter.EmbedURL(YouTubeOptions{URL: tt.url})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EmbedURL() error = %v, want %v", err, tt.wantErr)
			}
			if result != "" {
				t.Errorf("EmbedURL() = %q, want empty", result)
			}
		})
	}
}

func TestYouTube_VideoID(t *testing.T) {
	adapter := NewYouTube()

	tests := []struct {
		name       string
		url        string
		expectedID string
		wantError  bool
	}{
		{
			name:       "Standard watch URL",
			url:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expectedID: "dQw4w9WgXcQ",
		},
		{
			name:       "Watch URL with playlist",
			url:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf",
			expectedID: "dQw4w9WgXcQ",
		},
		{
			name:       "Short link",
			url:        "https://youtu.be/dQw4w9WgXcQ",
			expectedID: "dQw4w9WgXcQ",
		},
		{
			name:       "Embed URL",
			url:        "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1",
			expectedID: "dQw4w9WgXcQ",
		},
		{
			name:       "Shorts URL",
			url:        "https://youtube.com/shorts/abc-_123",
			expectedID: "abc-_123",
		},
		{
			name:      "Legacy path",
			url:       "https://www.youtube.com/v/dQw4w9WgXcQ",
			wantError: true,
		},
		{
			name:      "Not YouTube",
			url:       "https://vimeo.com/76979871",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videoID, err := adapter.VideoID(tt.url)
			if tt.wantError {
				if err == nil {
					t.Errorf("VideoID() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("VideoID() unexpected error: %v", err)
			}
			if videoID != tt.expectedID {
				t.Errorf("VideoID() = %v, want %v", videoID, tt.expectedID)
			}
		})
	}
}

func TestYouTube_Build(t *testing.T) {
	adapter := NewYouTube()

	result, err := adapter.Build(&YouTubeOptions{URL: "https://youtu.be/dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if result != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Errorf("Build() = %q", result)
	}

	if _, err := adapter.Build(VimeoOptions{URL: "https://vimeo.com/1"}); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Build() with vimeo options error = %v, want %v", err, ErrUnknownProvider)
	}
}
