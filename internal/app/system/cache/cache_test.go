// internal/app/system/cache/cache_test.go
package cache_test

import (
	"testing"
	"time"

	"github.com/dalemusser/admitflow/internal/app/system/cache"
)

func TestGetSet(t *testing.T) {
	c := cache.New(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache: got hit, want miss")
	}

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Errorf("Get: got %v/%v, want 42/true", v, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := cache.New(10 * time.Millisecond)
	c.Set("k", "v")

	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still returned")
	}
}

func TestKey(t *testing.T) {
	a := cache.Key("college1", "summary", "30")
	b := cache.Key("college1", "summary", "30")
	if a != b {
		t.Errorf("same inputs produced different keys: %q vs %q", a, b)
	}

	if cache.Key("college1", "summary", "30") == cache.Key("college2", "summary", "30") {
		t.Error("different colleges produced the same key")
	}
	if cache.Key("college1", "summary", "30") == cache.Key("college1", "summary", "60") {
		t.Error("different parts produced the same key")
	}
	// Part boundaries matter: ("ab","c") and ("a","bc") must differ.
	if cache.Key("c", "ab", "c") == cache.Key("c", "a", "bc") {
		t.Error("key ignores part boundaries")
	}

	if len(a) != 64 {
		t.Errorf("key length: got %d, want 64 hex chars", len(a))
	}
}
