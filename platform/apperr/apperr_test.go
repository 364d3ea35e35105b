package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{NotFound("customer not found"), http.StatusNotFound},
		{Validation("quantity must be at least 1"), http.StatusUnprocessableEntity},
		{Conflict("duplicate email"), http.StatusConflict},
		{BadRequest("invalid id"), http.StatusBadRequest},
		{Internal("storage failure"), http.StatusInternalServerError},
		{Unavailable("smtp down"), http.StatusBadGateway},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.status {
			t.Fatalf("kind %v: expected status %d, got %d", tc.err.Kind, tc.status, got)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, "could not create quotation", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if GetKind(err) != KindInternal {
		t.Fatalf("expected internal kind, got %v", GetKind(err))
	}
}

func TestGetKindOnPlainError(t *testing.T) {
	if got := GetKind(errors.New("plain")); got != KindUnknown {
		t.Fatalf("expected unknown kind, got %v", got)
	}
}
