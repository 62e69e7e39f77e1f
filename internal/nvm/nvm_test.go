package nvm

import (
	"context"
	"errors"
	"testing"
)

func TestFakeStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFakeStore()

	if _, ok, err := s.Get(ctx, "freq"); err != nil || ok {
		t.Fatalf("get on empty store = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Set(ctx, "freq", "433.92"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "freq")
	if err != nil || !ok {
		t.Fatalf("get after set = ok=%v err=%v", ok, err)
	}
	if v != "433.92" {
		t.Errorf("value = %q, want 433.92", v)
	}

	// Overwrite.
	if err := s.Set(ctx, "freq", "868.0"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.Get(ctx, "freq")
	if v != "868.0" {
		t.Errorf("value after overwrite = %q, want 868.0", v)
	}
}

func TestFakeStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := NewFakeStore()
	s.SetError = errors.New("backend down")
	if err := s.Set(ctx, "k", "v"); err == nil {
		t.Error("expected scripted set error")
	}
	s.SetError = nil
	s.GetError = errors.New("backend down")
	if _, _, err := s.Get(ctx, "k"); err == nil {
		t.Error("expected scripted get error")
	}
}

func TestNamespacedKey(t *testing.T) {
	if got := namespaced("freq"); got != "rfboard:freq" {
		t.Errorf("namespaced = %q, want rfboard:freq", got)
	}
}
