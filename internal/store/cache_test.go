package store

import (
	"fmt"
	"testing"
)

func TestResultCache_Basic(t *testing.T) {
	cache := NewResultCache(100, 0.001)

	// Test empty cache
	if _, ok := cache.Get("youtube|a"); ok {
		t.Error("Empty cache should not have any results")
	}
	if cache.IsRejected("youtube|a") {
		t.Error("Empty cache should not have any rejections")
	}

	cache.Put("youtube|a", "https://www.youtube.com/embed/a")
	got, ok := cache.Get("youtube|a")
	if !ok || got != "https://www.youtube.com/embed/a" {
		t.Errorf("Get() = %q, %v; want stored URL", got, ok)
	}

	// Test overwrite
	cache.Put("youtube|a", "https://www.youtube.com/embed/b")
	if got, _ := cache.Get("youtube|a"); got != "https://www.youtube.com/embed/b" {
		t.Errorf("Get() after overwrite = %q", got)
	}

	resolved, rejected := cache.Stats()
	if resolved != 1 || rejected != 0 {
		t.Errorf("Stats() = %d, %d; want 1, 0", resolved, rejected)
	}
}

func TestResultCache_Reject(t *testing.T) {
	cache := NewResultCache(100, 0.001)

	cache.Put("vimeo|x", "https://player.vimeo.com/video/1")
	cache.Reject("vimeo|x")
	cache.Reject("vimeo|x")

	if !cache.IsRejected("vimeo|x") {
		t.Error("Cache should report vimeo|x as rejected")
	}
	if _, ok := cache.Get("vimeo|x"); ok {
		t.Error("Rejected key should not keep a resolved URL")
	}

	resolved, rejected := cache.Stats()
	if resolved != 0 || rejected != 1 {
		t.Errorf("Stats() = %d, %d; want 0, 1", resolved, rejected)
	}

	// Resolving later clears the rejection
	cache.Put("vimeo|x", "https://player.vimeo.com/video/1")
	if cache.IsRejected("vimeo|x") {
		t.Error("Put should clear an earlier rejection")
	}
}

func TestResultCache_Forget(t *testing.T) {
	cache := NewResultCache(100, 0.001)

	cache.Put("a", "url-a")
	cache.Reject("b")
	cache.Forget("a")
	cache.Forget("b")
	cache.Forget("missing")

	if _, ok := cache.Get("a"); ok {
		t.Error("Forgotten resolved key should be gone")
	}
	if cache.IsRejected("b") {
		t.Error("Forgotten rejected key should be gone even though the Bloom filter still has it")
	}
}

func TestResultCache_Clear(t *testing.T) {
	cache := NewResultCache(100, 0.001)

	for i := 0; i < 3; i++ {
		cache.Put(fmt.Sprintf("ok%d", i), "url")
		cache.Reject(fmt.Sprintf("bad%d", i))
	}

	cache.Clear()

	resolved, rejected := cache.Stats()
	if resolved != 0 || rejected != 0 {
		t.Errorf("Stats() after clear = %d, %d; want 0, 0", resolved, rejected)
	}
	for i := 0; i < 3; i++ {
		if cache.IsRejected(fmt.Sprintf("bad%d", i)) {
			t.Errorf("Cache should not have bad%d after clear", i)
		}
	}
}

func TestResultCache_MaxCapacity(t *testing.T) {
	maxEntries := 5
	cache := NewResultCache(maxEntries, 0.001)

	for i := 0; i < maxEntries+3; i++ {
		cache.Put(fmt.Sprintf("ok%d", i), "url")
		cache.Reject(fmt.Sprintf("bad%d", i))
	}

	resolved, rejected := cache.Stats()
	if resolved > maxEntries || rejected > maxEntries {
		t.Errorf("Stats() = %d, %d; should not exceed %d", resolved, rejected, maxEntries)
	}

	// The most recently added keys should be present
	for _, i := range []int{5, 6, 7} {
		if _, ok := cache.Get(fmt.Sprintf("ok%d", i)); !ok {
			t.Errorf("Cache should have recent key ok%d", i)
		}
		if !cache.IsRejected(fmt.Sprintf("bad%d", i)) {
			t.Errorf("Cache should have recent rejection bad%d", i)
		}
	}
	if cache.IsRejected("bad0") {
		t.Error("Oldest rejection should have been evicted")
	}
}

func TestResultCache_BloomFilterEffectiveness(t *testing.T) {
	cache := NewResultCache(1000, 0.001)

	numKeys := 500
	for i := 0; i < numKeys; i++ {
		cache.Reject(fmt.Sprintf("bad_%d", i))
	}

	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("bad_%d", i)
		if !cache.IsRejected(key) {
			t.Errorf("Cache should have rejection %s", key)
		}
	}

	// Unknown keys are never reported, the Bloom filter only screens them
	for i := numKeys; i < numKeys+1000; i++ {
		key := fmt.Sprintf("unknown_%d", i)
		if cache.IsRejected(key) {
			t.Errorf("Cache should not report unknown key %s", key)
		}
	}
}

func TestNewResultCache_InvalidSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewResultCache(0) should panic")
		}
	}()
	NewResultCache(0, 0.001)
}

func BenchmarkResultCache_Put(b *testing.B) {
	cache := NewResultCache(10000, 0.001)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Put(fmt.Sprintf("key_%d", i), "url")
	}
}

func BenchmarkResultCache_IsRejected(b *testing.B) {
	cache := NewResultCache(10000, 0.001)

	for i := 0; i < 1000; i++ {
		cache.Reject(fmt.Sprintf("bad_%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.IsRejected(fmt.Sprintf("bad_%d", i%2000))
	}
}
