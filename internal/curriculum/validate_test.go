package curriculum

import (
	"strings"
	"testing"
)

func validWeek(number int) MacroPlanWeek {
	return MacroPlanWeek{
		WeekNumber:   number,
		Theme:        "Foundations",
		Topics:       []string{"intro"},
		SessionCount: 2,
		TotalHours:   2,
	}
}

func TestValidateMacroPlan(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*MacroPlan)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(m *MacroPlan) {},
		},
		{
			name:    "no weeks",
			mutate:  func(m *MacroPlan) { m.Weeks = nil },
			wantErr: "no weeks",
		},
		{
			name:    "duplicate week number",
			mutate:  func(m *MacroPlan) { m.Weeks[1].WeekNumber = 1 },
			wantErr: "duplicate weekNumber",
		},
		{
			name:    "zero session count",
			mutate:  func(m *MacroPlan) { m.Weeks[0].SessionCount = 0 },
			wantErr: "invalid sessionCount",
		},
		{
			name:    "missing theme",
			mutate:  func(m *MacroPlan) { m.Weeks[0].Theme = "" },
			wantErr: "no theme",
		},
		{
			name: "assessment without type",
			mutate: func(m *MacroPlan) {
				m.Weeks[1].HasAssessment = true
				m.Weeks[1].AssessmentType = ""
			},
			wantErr: "assessment without a type",
		},
		{
			name:    "nonpositive week number",
			mutate:  func(m *MacroPlan) { m.Weeks[0].WeekNumber = 0 },
			wantErr: "invalid weekNumber",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &MacroPlan{
				CourseName: "Signals",
				TotalWeeks: 2,
				Weeks:      []MacroPlanWeek{validWeek(1), validWeek(2)},
			}
			tc.mutate(m)
			err := ValidateMacroPlan(m)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}

	if err := ValidateMacroPlan(nil); err == nil {
		t.Fatal("expected error for nil plan")
	}
}

func TestValidateBlueprint(t *testing.T) {
	valid := func() *SessionBlueprint {
		return &SessionBlueprint{
			SessionTitle: "Convolution",
			Sections: []SessionSection{
				{Type: "hook", Title: "Opening", Duration: 10},
				{Type: "core", Title: "Main", Duration: 50},
			},
		}
	}

	if err := ValidateBlueprint(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateBlueprint(nil); err == nil {
		t.Fatal("expected error for nil blueprint")
	}
	if err := ValidateBlueprint(&SessionBlueprint{}); err == nil {
		t.Fatal("expected error for empty blueprint")
	}

	b := valid()
	b.Sections = nil
	if err := ValidateBlueprint(b); err == nil || !strings.Contains(err.Error(), "no sections") {
		t.Fatalf("expected no-sections error, got %v", err)
	}

	b = valid()
	b.Sections[0].Duration = -5
	if err := ValidateBlueprint(b); err == nil || !strings.Contains(err.Error(), "negative duration") {
		t.Fatalf("expected negative-duration error, got %v", err)
	}
}

func TestSectionDurationTotal(t *testing.T) {
	b := &SessionBlueprint{
		Duration: 60,
		Sections: []SessionSection{
			{Type: "hook", Title: "Opening", Duration: 10},
			{Type: "core", Title: "Main", Duration: 35},
			{Type: "wrap", Title: "Recap", Duration: 15},
		},
	}
	if got := b.SectionDurationTotal(); got != b.Duration {
		t.Fatalf("sections sum to %d, want %d", got, b.Duration)
	}
	if got := (&SessionBlueprint{}).SectionDurationTotal(); got != 0 {
		t.Fatalf("expected 0 for empty blueprint, got %d", got)
	}
}

func TestWeekLookup(t *testing.T) {
	m := &MacroPlan{Weeks: []MacroPlanWeek{validWeek(1), validWeek(3)}}
	if w := m.Week(3); w == nil || w.WeekNumber != 3 {
		t.Fatalf("expected week 3, got %+v", w)
	}
	if w := m.Week(2); w != nil {
		t.Fatalf("expected nil for missing week, got %+v", w)
	}
}
