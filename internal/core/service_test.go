package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"videoembed/internal/store"
	"videoembed/pkg/embed"
)

// recordingRecorder collects counters reported by the service.
type recordingRecorder struct {
	mu          sync.Mutex
	outcomes    []string
	cacheHits   int
	cacheMisses int
}

func (r *recordingRecorder) RecordResolution(provider, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, provider+":"+outcome)
}

func (r *recordingRecorder) RecordCacheLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.cacheHits++
	} else {
		r.cacheMisses++
	}
}

func newTestService(t *testing.T) (*Service, *recordingRecorder) {
	t.Helper()
	recorder := &recordingRecorder{}
	cache := store.NewResultCache(100, 0.001)
	return NewService(DefaultEmbedConfig(), cache, recorder, zap.NewNop()), recorder
}

func TestService_Resolve(t *testing.T) {
	service, _ := newTestService(t)

	tests := []struct {
		name       string
		provider   embed.Provider
		attrs      NodeAttrs
		expected   string
		wantWidth  int
		wantHeight int
	}{
		{
			name:     "YouTube watch link with start",
			provider: embed.ProviderYouTube,
			attrs:    NodeAttrs{Src: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Start: 42},
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ?start=42&rel=1",
		},
		{
			name:       "YouTube short link keeps iframe size",
			provider:   embed.ProviderYouTube,
			attrs:      NodeAttrs{Src: "https://youtu.be/dQw4w9WgXcQ", Width: 560, Height: 315},
			expected:   "https://www.youtube.com/embed/dQw4w9WgXcQ",
			wantWidth:  560,
			wantHeight: 315,
		},
		{
			name:     "Vimeo with start",
			provider: embed.ProviderVimeo,
			attrs:    NodeAttrs{Src: "https://vimeo.com/76979871", Start: 5},
			expected: "https://player.vimeo.com/video/76979871?cc=0&start_time=5&vimeo_logo=0&responsive=1" +
				"&title=0&byline=0&portrait=0",
		},
		{
			name:     "TikTok defaults",
			provider: embed.ProviderTikTok,
			attrs:    NodeAttrs{Src: "https://www.tiktok.com/@user/video/7000000000000000001"},
			expected: "https://www.tiktok.com/player/v1/7000000000000000001?rel=0&music_info=0" +
				"&native_context_menu=0&closed_captions=0",
		},
		{
			name:       "Facebook uses configured size",
			provider:   embed.ProviderFacebook,
			attrs:      NodeAttrs{Src: "https://www.facebook.com/user/videos/123"},
			expected:   "https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Fwww.facebook.com%2Fuser%2Fvideos%2F123&show_text=0&width=640&height=480",
			wantWidth:  640,
			wantHeight: 480,
		},
		{
			name:       "Facebook node size wins",
			provider:   embed.ProviderFacebook,
			attrs:      NodeAttrs{Src: "https://www.facebook.com/user/videos/123", Width: 300},
			expected:   "https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Fwww.facebook.com%2Fuser%2Fvideos%2F123&show_text=0&width=300&height=480",
			wantWidth:  300,
			wantHeight: 480,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.Resolve(context.Background(), tt.provider, tt.attrs)
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if result.EmbedURL != tt.expected {
				t.Errorf("Resolve() = %q, want %q", result.EmbedURL, tt.expected)
			}
			if result.Width != tt.wantWidth || result.Height != tt.wantHeight {
				t.Errorf("Resolve() size = %dx%d, want %dx%d", result.Width, result.Height, tt.wantWidth, tt.wantHeight)
			}
			if result.Provider != tt.provider {
				t.Errorf("Resolve() provider = %v, want %v", result.Provider, tt.provider)
			}
		})
	}
}

func TestService_Resolve_Cache(t *testing.T) {
	service, recorder := newTestService(t)
	attrs := NodeAttrs{Src: "https://vimeo.com/76979871"}

	first, err := service.Resolve(context.Background(), embed.ProviderVimeo, attrs)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	second, err := service.Resolve(context.Background(), embed.ProviderVimeo, attrs)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	if first.Cached || !second.Cached {
		t.Errorf("Cached flags = %v, %v; want false, true", first.Cached, second.Cached)
	}
	if first.EmbedURL != second.EmbedURL {
		t.Errorf("Cached result %q differs from %q", second.EmbedURL, first.EmbedURL)
	}
	if recorder.cacheMisses != 1 || recorder.cacheHits != 1 {
		t.Errorf("cache lookups = %d hits, %d misses; want 1, 1", recorder.cacheHits, recorder.cacheMisses)
	}
}

func TestService_Resolve_RejectionRemembered(t *testing.T) {
	service, recorder := newTestService(t)
	attrs := NodeAttrs{Src: "https://example.com/not-a-video"}

	for i := 0; i < 2; i++ {
		_, err := service.Resolve(context.Background(), embed.ProviderYouTube, attrs)
		if !errors.Is(err, embed.ErrNoMatch) {
			t.Fatalf("Resolve() error = %v, want %v", err, embed.ErrNoMatch)
		}
	}

	want := []string{"youtube:rejected", "youtube:rejected"}
	if len(recorder.outcomes) != len(want) {
		t.Fatalf("outcomes = %v, want %v", recorder.outcomes, want)
	}
	if recorder.cacheHits != 1 {
		t.Errorf("second rejection should come from the cache, got %d hits", recorder.cacheHits)
	}
}

func TestService_Resolve_Errors(t *testing.T) {
	service, recorder := newTestService(t)

	_, err := service.Resolve(context.Background(), embed.ProviderYouTube, NodeAttrs{Src: "https://www.youtube.com/channel/abc"})
	if !errors.Is(err, embed.ErrNoVideoID) {
		t.Errorf("Resolve() error = %v, want %v", err, embed.ErrNoVideoID)
	}

	_, err = service.Resolve(context.Background(), "dailymotion", NodeAttrs{Src: "https://www.dailymotion.com/video/x7"})
	if !errors.Is(err, embed.ErrUnknownProvider) {
		t.Errorf("Resolve() error = %v, want %v", err, embed.ErrUnknownProvider)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.Resolve(ctx, embed.ProviderVimeo, NodeAttrs{Src: "https://vimeo.com/1"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want %v", err, context.Canceled)
	}

	want := []string{"youtube:no_video_id", "dailymotion:error"}
	if len(recorder.outcomes) != len(want) {
		t.Fatalf("outcomes = %v, want %v", recorder.outcomes, want)
	}
	for i := range want {
		if recorder.outcomes[i] != want[i] {
			t.Errorf("outcomes[%d] = %q, want %q", i, recorder.outcomes[i], want[i])
		}
	}
}

func TestService_Resolve_WithoutCache(t *testing.T) {
	service := NewService(DefaultEmbedConfig(), nil, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		result, err := service.Resolve(context.Background(), embed.ProviderTikTok,
			NodeAttrs{Src: "https://www.tiktok.com/player/v1/1"})
		if err != nil {
			t.Fatalf("Resolve() unexpected error: %v", err)
		}
		if result.Cached {
			t.Error("Resolve() without cache should never report a cached result")
		}
	}
}

func TestService_Build(t *testing.T) {
	service, _ := newTestService(t)

	got, err := service.Build(context.Background(), embed.YouTubeOptions{
		URL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		NoCookie: true,
		Controls: true,
		Autoplay: true,
	})
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if want := "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ?autoplay=1"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}

	if _, err := service.Build(context.Background(), nil); !errors.Is(err, embed.ErrNoMatch) {
		t.Errorf("Build(nil) error = %v, want %v", err, embed.ErrNoMatch)
	}
}

func TestService_ValidateAndDetect(t *testing.T) {
	service, _ := newTestService(t)

	if !service.Validate(embed.ProviderVimeo, "https://vimeo.com/76979871") {
		t.Error("Validate() = false for a Vimeo link")
	}
	if service.Validate(embed.ProviderVimeo, "https://youtu.be/dQw4w9WgXcQ") {
		t.Error("Validate() = true for a YouTube link checked as Vimeo")
	}

	providers := service.Detect("https://youtu.be/dQw4w9WgXcQ")
	if len(providers) != 1 || providers[0] != embed.ProviderYouTube {
		t.Errorf("Detect() = %v, want [youtube]", providers)
	}

	if len(service.Providers()) != 4 {
		t.Errorf("Providers() = %v, want 4 providers", service.Providers())
	}
}
