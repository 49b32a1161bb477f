package curriculum

import "fmt"

// ValidateMacroPlan checks the shape the scheduler and session generator rely
// on. Content quality is the generator's problem; structure is ours.
func ValidateMacroPlan(m *MacroPlan) error {
	if m == nil {
		return fmt.Errorf("macro plan is empty")
	}
	if len(m.Weeks) == 0 {
		return fmt.Errorf("macro plan has no weeks")
	}
	seen := map[int]bool{}
	for i, w := range m.Weeks {
		if w.WeekNumber <= 0 {
			return fmt.Errorf("week at index %d has invalid weekNumber %d", i, w.WeekNumber)
		}
		if seen[w.WeekNumber] {
			return fmt.Errorf("duplicate weekNumber %d", w.WeekNumber)
		}
		seen[w.WeekNumber] = true
		if w.SessionCount <= 0 {
			return fmt.Errorf("week %d has invalid sessionCount %d", w.WeekNumber, w.SessionCount)
		}
		if w.Theme == "" {
			return fmt.Errorf("week %d has no theme", w.WeekNumber)
		}
		if w.HasAssessment && w.AssessmentType == "" {
			return fmt.Errorf("week %d declares an assessment without a type", w.WeekNumber)
		}
	}
	return nil
}

// ValidateBlueprint checks that a generated blueprint is usable downstream.
// The section-duration sum matching the course session duration is a soft
// invariant enforced by prompting, not here.
func ValidateBlueprint(b *SessionBlueprint) error {
	if b == nil || b.IsZero() {
		return fmt.Errorf("blueprint is empty")
	}
	if b.SessionTitle == "" {
		return fmt.Errorf("blueprint has no title")
	}
	if len(b.Sections) == 0 {
		return fmt.Errorf("blueprint has no sections")
	}
	for i, s := range b.Sections {
		if s.Duration < 0 {
			return fmt.Errorf("section %d has negative duration", i)
		}
	}
	return nil
}
