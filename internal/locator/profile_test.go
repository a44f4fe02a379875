package locator

import (
	"testing"

	"triagetrack/internal/core"
)

func TestStartPage(t *testing.T) {
	today, _ := core.ParseDate("2024-07-15")

	cases := []struct {
		name    string
		profile PageProfile
		target  string
		want    int
	}{
		{"today is page zero", EventProfile, "2024-07-15", 0},
		{"yesterday uses the fixed constant", EventProfile, "2024-07-14", 4},
		{"events scale linearly", EventProfile, "2024-07-05", 40},
		{"issues round down", IssueProfile, "2024-07-05", 1},
		{"issues near boundary", IssueProfile, "2024-07-12", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, _ := core.ParseDate(tc.target)
			if got := tc.profile.StartPage(target, today); got != tc.want {
				t.Errorf("StartPage(%s) = %d, want %d", tc.target, got, tc.want)
			}
		})
	}
}

func TestBaselineNeverBelowOne(t *testing.T) {
	if got := IssueProfile.baseline(); got != 1 {
		t.Errorf("Issue baseline = %d, want 1", got)
	}
	if got := EventProfile.baseline(); got != 4 {
		t.Errorf("Event baseline = %d, want 4", got)
	}
}
