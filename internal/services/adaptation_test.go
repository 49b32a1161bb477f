package services

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/courseloom/backend/internal/apierr"
	"github.com/courseloom/backend/internal/types"
)

func suggestionResponder() func(schemaName, user string, call int) (map[string]any, error) {
	return func(schemaName, user string, call int) (map[string]any, error) {
		return map[string]any{
			"suggestion": map[string]any{
				"week3": "add a review session before the quiz",
			},
			"reasoning": "Quiz scores indicate the pacing is too fast.",
		}, nil
	}
}

func seedAdaptationPlan(t *testing.T, env *testEnv) *types.Plan {
	t.Helper()
	course := seedCourse(t, env.db)
	return seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 2), macroWeek(2, 2)))
}

func TestCreateAdaptationStoresPendingSuggestion(t *testing.T) {
	env := newTestEnv(t)
	plan := seedAdaptationPlan(t, env)
	env.ai.handler = suggestionResponder()
	svc := env.adaptationService()

	adaptation, err := svc.Create(teacherCtx(), CreateAdaptationRequest{
		PlanID:      plan.ID,
		TriggerType: types.TriggerLowQuizScores,
		TriggerData: map[string]any{"averageScore": 42.5},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if adaptation.Status != types.AdaptationPending {
		t.Fatalf("expected PENDING, got %s", adaptation.Status)
	}
	if adaptation.Reasoning == "" {
		t.Fatal("expected reasoning from the generator")
	}
	if adaptation.RespondedAt != nil {
		t.Fatal("new adaptation should not carry a response timestamp")
	}

	var suggestion map[string]any
	if err := json.Unmarshal(adaptation.Suggestion, &suggestion); err != nil {
		t.Fatalf("suggestion json: %v", err)
	}
	if suggestion["week3"] != "add a review session before the quiz" {
		t.Fatalf("unexpected suggestion %v", suggestion)
	}
	var trigger map[string]any
	if err := json.Unmarshal(adaptation.TriggerData, &trigger); err != nil {
		t.Fatalf("trigger json: %v", err)
	}
	if trigger["averageScore"] != 42.5 {
		t.Fatalf("unexpected trigger data %v", trigger)
	}
	if !env.ai.allCallsHadDeadline("adaptation_suggestion") {
		t.Fatal("suggestion call ran without a deadline")
	}
}

func TestAdaptationsScopedToOwningTeacher(t *testing.T) {
	env := newTestEnv(t)
	plan := seedAdaptationPlan(t, env)
	env.ai.handler = suggestionResponder()
	svc := env.adaptationService()

	adaptation, err := svc.Create(teacherCtx(), CreateAdaptationRequest{
		PlanID:      plan.ID,
		TriggerType: types.TriggerPacingIssue,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Create(otherTeacherCtx(), CreateAdaptationRequest{
		PlanID:      plan.ID,
		TriggerType: types.TriggerPacingIssue,
	})
	if apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found creating against foreign plan, got %v", err)
	}
	_, err = svc.Respond(otherTeacherCtx(), RespondAdaptationRequest{
		AdaptationID: adaptation.ID,
		Status:       types.AdaptationAccepted,
	})
	if apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found responding to foreign adaptation, got %v", err)
	}
	if _, err := svc.ListByPlan(otherTeacherCtx(), plan.ID); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found listing foreign plan, got %v", err)
	}
}

func TestCreateAdaptationRejectsUnknownTrigger(t *testing.T) {
	env := newTestEnv(t)
	plan := seedAdaptationPlan(t, env)
	svc := env.adaptationService()

	_, err := svc.Create(teacherCtx(), CreateAdaptationRequest{
		PlanID:      plan.ID,
		TriggerType: "VIBES_OFF",
	})
	if apierr.CodeOf(err) != apierr.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestRespondAcceptMergesCustomizations(t *testing.T) {
	env := newTestEnv(t)
	plan := seedAdaptationPlan(t, env)
	env.ai.handler = suggestionResponder()
	svc := env.adaptationService()

	adaptation, err := svc.Create(teacherCtx(), CreateAdaptationRequest{
		PlanID:      plan.ID,
		TriggerType: types.TriggerPacingIssue,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	responded, err := svc.Respond(teacherCtx(), RespondAdaptationRequest{
		AdaptationID:   adaptation.ID,
		Status:         types.AdaptationAccepted,
		Customizations: map[string]any{"week3": "review session, but only 30 minutes"},
	})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if responded.Status != types.AdaptationAccepted {
		t.Fatalf("expected ACCEPTED, got %s", responded.Status)
	}
	if responded.RespondedAt == nil {
		t.Fatal("expected responded_at to be set")
	}

	var suggestion map[string]any
	if err := json.Unmarshal(responded.Suggestion, &suggestion); err != nil {
		t.Fatalf("suggestion json: %v", err)
	}
	applied, ok := suggestion["appliedCustomizations"].(map[string]any)
	if !ok {
		t.Fatalf("expected appliedCustomizations in %v", suggestion)
	}
	if applied["week3"] != "review session, but only 30 minutes" {
		t.Fatalf("unexpected customizations %v", applied)
	}
	// the original suggestion body survives the merge
	if suggestion["week3"] != "add a review session before the quiz" {
		t.Fatalf("original suggestion lost: %v", suggestion)
	}
}

func TestRespondIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	plan := seedAdaptationPlan(t, env)
	env.ai.handler = suggestionResponder()
	svc := env.adaptationService()

	adaptation, err := svc.Create(teacherCtx(), CreateAdaptationRequest{
		PlanID:      plan.ID,
		TriggerType: types.TriggerStudentFeedback,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.Respond(teacherCtx(), RespondAdaptationRequest{
		AdaptationID: adaptation.ID,
		Status:       types.AdaptationRejected,
	})
	if err != nil {
		t.Fatalf("first respond: %v", err)
	}

	_, err = svc.Respond(teacherCtx(), RespondAdaptationRequest{
		AdaptationID: adaptation.ID,
		Status:       types.AdaptationAccepted,
	})
	if apierr.CodeOf(err) != apierr.CodeInvalidTransition {
		t.Fatalf("expected invalid_transition, got %v", err)
	}

	// original outcome untouched
	reloaded, err := env.adaptRepo.GetByID(teacherCtx(), nil, adaptation.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != types.AdaptationRejected {
		t.Fatalf("expected REJECTED preserved, got %s", reloaded.Status)
	}
	if reloaded.RespondedAt == nil || !reloaded.RespondedAt.Equal(*first.RespondedAt) {
		t.Fatalf("responded_at changed: %v vs %v", reloaded.RespondedAt, first.RespondedAt)
	}
}

func TestRespondValidatesStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := env.adaptationService()

	_, err := svc.Respond(teacherCtx(), RespondAdaptationRequest{
		AdaptationID: uuid.New(),
		Status:       types.AdaptationPending,
	})
	if apierr.CodeOf(err) != apierr.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestListAdaptationsByPlan(t *testing.T) {
	env := newTestEnv(t)
	plan := seedAdaptationPlan(t, env)
	env.ai.handler = suggestionResponder()
	svc := env.adaptationService()

	for range [2]int{} {
		if _, err := svc.Create(teacherCtx(), CreateAdaptationRequest{
			PlanID:      plan.ID,
			TriggerType: types.TriggerTeacherRequest,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	listed, err := svc.ListByPlan(teacherCtx(), plan.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 adaptations, got %d", len(listed))
	}

	if _, err := svc.ListByPlan(teacherCtx(), uuid.New()); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found for unknown plan, got %v", err)
	}
}
