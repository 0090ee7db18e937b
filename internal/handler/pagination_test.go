package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParsePageParams(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{name: "Defaults", query: "", wantLimit: DefaultLimit, wantOffset: 0},
		{name: "Explicit", query: "limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{name: "NonNumeric", query: "limit=abc&offset=xyz", wantLimit: DefaultLimit, wantOffset: 0},
		{name: "ClampedToMax", query: "limit=500", wantLimit: MaxLimit, wantOffset: 0},
		{name: "NegativeFloored", query: "limit=-1&offset=-5", wantLimit: DefaultLimit, wantOffset: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tc.query, nil)

			limit, offset := ParsePageParams(c)
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Fatalf("ParsePageParams(%q) = (%d, %d), want (%d, %d)",
					tc.query, limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
