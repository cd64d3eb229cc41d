package tool

import (
	"testing"

	"github.com/thenoetrevino/etapa/internal/models"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache()
	step := models.ToolStep{Binary: "solve", Args: []string{"-x"}, Capture: `value = (\d+)`}

	if _, ok := cache.Get(step, "deck"); ok {
		t.Fatal("empty cache must miss")
	}
	cache.Put(step, "deck", "42")

	v, ok := cache.Get(step, "deck")
	if !ok || v != "42" {
		t.Errorf("Get = %q, %v; want 42, true", v, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestCacheKeyCoversPatternFields(t *testing.T) {
	cache := NewCache()
	step := models.ToolStep{Binary: "solve", Capture: `Total Energy = (\S+)`}
	cache.Put(step, "deck", "-42.7")

	otherCapture := step
	otherCapture.Capture = `Dipole = (\S+)`
	if _, ok := cache.Get(otherCapture, "deck"); ok {
		t.Error("a different capture pattern must not hit the cached value")
	}

	otherMarker := step
	otherMarker.RetryOn = "license"
	if _, ok := cache.Get(otherMarker, "deck"); ok {
		t.Error("a different retry marker must not hit the cached value")
	}

	if v, ok := cache.Get(step, "deck"); !ok || v != "-42.7" {
		t.Errorf("original step lost its entry: %q, %v", v, ok)
	}
}
