package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromCoercion(t *testing.T) {
	if got := From(nil); got != nil {
		t.Fatalf("From(nil): expected nil, got %+v", got)
	}

	typed := NotFound("missing thing")
	if got := From(typed); got != typed {
		t.Fatalf("From(typed): expected passthrough, got %+v", got)
	}

	wrapped := fmt.Errorf("outer: %w", Conflict("already there"))
	got := From(wrapped)
	if got.Code != CodeConflict || got.Status != http.StatusConflict {
		t.Fatalf("From(wrapped): expected conflict, got %+v", got)
	}

	untyped := From(errors.New("boom"))
	if untyped.Code != CodeStorage || untyped.Status != http.StatusInternalServerError {
		t.Fatalf("From(untyped): expected storage, got %+v", untyped)
	}
}

// From returns *Error, so returning it unconditionally through the error
// interface yields a non-nil interface wrapping a nil pointer. Callers on a
// success path must return a literal nil instead.
func TestFromSuccessPathReturnsNilInterface(t *testing.T) {
	run := func() error {
		var err error
		if err != nil {
			return From(err)
		}
		return nil
	}
	if err := run(); err != nil {
		t.Fatalf("success path returned non-nil error interface: %#v", err)
	}
}
