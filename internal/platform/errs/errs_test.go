package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", E(KindNotFound, "claim not found"), KindNotFound},
		{"wrapped once more", fmt.Errorf("handler: %w", E(KindUpdateConflict, "stale")), KindUpdateConflict},
		{"unclassified", errors.New("boom"), KindInternal},
		{"wrap keeps cause", Wrap(KindInternal, errors.New("io"), "query failed"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{E(KindNotFound, "x"), http.StatusNotFound},
		{E(KindInvalidInput, "x"), http.StatusBadRequest},
		{E(KindAccessDenied, "x"), http.StatusForbidden},
		{E(KindUpdateConflict, "x"), http.StatusConflict},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("row scan failed")
	err := Wrap(KindInternal, cause, "load claim")
	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match cause with errors.Is")
	}
	if ReasonOf(err) != "load claim" {
		t.Errorf("ReasonOf() = %q, want %q", ReasonOf(err), "load claim")
	}
}
