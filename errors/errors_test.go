package errors

import (
	"fmt"
	"testing"
)

func TestKakapoError(t *testing.T) {
	err := New(ErrCodeSoundNotFound, "sound not found")
	if err.Code != ErrCodeSoundNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSoundNotFound, err.Code)
	}

	cause := fmt.Errorf("connection refused")
	wrapped := Wrap(cause, ErrCodeFetchFailed, "fetch failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeFetchFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeSoundNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Codes survive fmt.Errorf wrapping
	outer := fmt.Errorf("init: %w", wrapped)
	if GetCode(outer) != ErrCodeFetchFailed {
		t.Errorf("expected code %s through wrapping, got %s", ErrCodeFetchFailed, GetCode(outer))
	}

	detailed := err.WithDetail("id", "wind").WithDetail("attempt", 2)
	if detailed.Details["id"] != "wind" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := FetchFailed("https://example.com/sounds", fmt.Errorf("boom"))
	if err.Code != ErrCodeFetchFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFetchFailed, err.Code)
	}
	if err.Details["url"] != "https://example.com/sounds" {
		t.Error("FetchFailed should include url detail")
	}

	err = StorageFailed("sqlite", "set", fmt.Errorf("disk full"))
	if err.Details["driver"] != "sqlite" || err.Details["op"] != "set" {
		t.Error("StorageFailed should include driver and op details")
	}

	if GetCode(InitPending()) != ErrCodeInitPending {
		t.Error("InitPending should carry INIT_PENDING")
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}
