package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPErrorJSON(t *testing.T) {
	tests := []struct {
		name string
		err  *HTTPError
		want string
	}{
		{
			name: "validation",
			err:  NewBadRequestError("Phone number must be at least 5 digits", "number"),
			want: `{"code":"BAD_REQUEST","error":"Phone number must be at least 5 digits","field":"number"}`,
		},
		{
			name: "not found with suggestion",
			err:  NewNotFoundError("No contacts available to export").WithSuggestion("Add contacts first before exporting").AsFailure(),
			want: `{"code":"NOT_FOUND","error":"No contacts available to export","suggestion":"Add contacts first before exporting","success":false}`,
		},
		{
			name: "internal with details",
			err:  NewInternalServerError("Internal server error").WithDetails(errors.New("remote store PUT failed: 409")),
			want: `{"code":"INTERNAL_SERVER_ERROR","error":"Internal server error","details":"remote store PUT failed: 409"}`,
		},
		{
			name: "internal default message, details stripped",
			err:  NewInternalServerError("").WithDetails(errors.New("secret")).Public(),
			want: `{"code":"INTERNAL_SERVER_ERROR","error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.err)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestWithHelpersDoNotMutate(t *testing.T) {
	base := NewNotFoundError("missing")
	_ = base.WithSuggestion("try again").AsFailure().WithDetails(fmt.Errorf("boom"))

	if base.Suggestion != "" || base.Success != nil || base.Message != "missing" || base.Details != "" {
		t.Fatalf("template was mutated: %+v", base)
	}
}

func TestHTTPErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewMethodNotAllowedError())

	var httpErr *HTTPError
	if !errors.As(wrapped, &httpErr) || httpErr.Status != http.StatusMethodNotAllowed {
		t.Fatalf("expected wrapped 405, got %v", wrapped)
	}
	if !errors.Is(wrapped, &HTTPError{}) {
		t.Fatal("errors.Is must match any *HTTPError")
	}
}
