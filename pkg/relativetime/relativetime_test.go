package relativetime

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		age  time.Duration
		want string
	}{
		{name: "JustNow", age: 10 * time.Second, want: "just now"},
		{name: "Minutes", age: 5 * time.Minute, want: "5m ago"},
		{name: "Hours", age: 2 * time.Hour, want: "2h ago"},
		{name: "Days", age: 3 * 24 * time.Hour, want: "3d ago"},
		{name: "Weeks", age: 2 * 7 * 24 * time.Hour, want: "2w ago"},
		{name: "Months", age: 65 * 24 * time.Hour, want: "2mo ago"},
		{name: "Years", age: 800 * 24 * time.Hour, want: "2y ago"},
		{name: "FutureClampsToNow", age: -time.Hour, want: "just now"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Format(now.Add(-tc.age), now)
			if got != tc.want {
				t.Fatalf("Format(now-%v) = %q, want %q", tc.age, got, tc.want)
			}
		})
	}
}
