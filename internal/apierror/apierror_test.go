package apierror

import (
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeAlreadyFriends, http.StatusBadRequest},
		{CodeRequestAlreadySent, http.StatusBadRequest},
		{CodeRequestExists, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidToken, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeUserNotFound, http.StatusNotFound},
		{CodeUsernameTaken, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := New(tc.code, "x").Status(); got != tc.want {
			t.Errorf("Status(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestUnknownCodeDefaultsToInternal(t *testing.T) {
	err := New(Code("mystery"), "x")
	if err.Status() != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to 500, got %d", err.Status())
	}
}
