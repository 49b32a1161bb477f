package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/courseloom/backend/internal/apierr"
	"github.com/courseloom/backend/internal/curriculum"
	"github.com/courseloom/backend/internal/types"
)

func macroResponder(macro curriculum.MacroPlan) func(schemaName, user string, call int) (map[string]any, error) {
	return func(schemaName, user string, call int) (map[string]any, error) {
		switch schemaName {
		case "macro_plan":
			return asMapAny(macro), nil
		case "session_blueprint":
			return asMapAny(sampleBlueprint("Generated Session", 0, 0)), nil
		default:
			return nil, fmt.Errorf("unexpected schema %s", schemaName)
		}
	}
}

func asMapAny(v any) map[string]any {
	raw, _ := json.Marshal(v)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return out
}

func TestGenerateMacroPlanVersionsAreAppendOnly(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)

	firstMacro := sampleMacro(macroWeek(1, 2), macroWeek(2, 2))
	env.ai.handler = macroResponder(firstMacro)
	svc := env.curriculumService()
	ctx := teacherCtx()

	plan1, err := svc.GenerateMacroPlan(ctx, course.ID)
	if err != nil {
		t.Fatalf("first generation: %v", err)
	}
	if plan1.Version != 1 {
		t.Fatalf("expected version 1, got %d", plan1.Version)
	}

	secondMacro := sampleMacro(macroWeek(1, 3))
	secondMacro.CourseOverview = "revised overview"
	env.ai.handler = macroResponder(secondMacro)

	plan2, err := svc.GenerateMacroPlan(ctx, course.ID)
	if err != nil {
		t.Fatalf("second generation: %v", err)
	}
	if plan2.Version != 2 {
		t.Fatalf("expected version 2, got %d", plan2.Version)
	}
	if plan1.ID == plan2.ID {
		t.Fatalf("regeneration reused the same plan row")
	}

	reloaded, err := svc.GetPlan(ctx, plan1.ID)
	if err != nil {
		t.Fatalf("reload plan1: %v", err)
	}
	if got := reloaded.Macroplan.Data().CourseOverview; got != firstMacro.CourseOverview {
		t.Fatalf("version 1 content mutated: %q", got)
	}
	if len(reloaded.Macroplan.Data().Weeks) != 2 {
		t.Fatalf("version 1 weeks mutated: %d", len(reloaded.Macroplan.Data().Weeks))
	}
}

func TestGenerateMacroPlanRejectsInvalidShape(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	env.ai.handler = func(schemaName, user string, call int) (map[string]any, error) {
		return map[string]any{"courseName": "X", "totalWeeks": 1, "weeks": []any{}}, nil
	}
	svc := env.curriculumService()

	_, err := svc.GenerateMacroPlan(teacherCtx(), course.ID)
	if err == nil {
		t.Fatalf("expected error for empty weeks")
	}
	if apierr.CodeOf(err) != apierr.CodeUpstreamGeneration {
		t.Fatalf("expected upstream code, got %q", apierr.CodeOf(err))
	}
}

func TestGenerateSessionUpsertsInPlace(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 2)))
	svc := env.curriculumService()
	ctx := teacherCtx()

	env.ai.handler = func(schemaName, user string, call int) (map[string]any, error) {
		return asMapAny(sampleBlueprint("First Draft", 1, 1)), nil
	}
	s1, err := svc.GenerateSession(ctx, plan.ID, 1, 1)
	if err != nil {
		t.Fatalf("first generation: %v", err)
	}

	env.ai.handler = func(schemaName, user string, call int) (map[string]any, error) {
		return asMapAny(sampleBlueprint("Second Draft", 1, 1)), nil
	}
	s2, err := svc.GenerateSession(ctx, plan.ID, 1, 1)
	if err != nil {
		t.Fatalf("second generation: %v", err)
	}

	if s1.ID != s2.ID {
		t.Fatalf("regeneration created a new row: %s vs %s", s1.ID, s2.ID)
	}
	sessions, err := svc.ListSessions(ctx, plan.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if got := sessions[0].Blueprint.Data().SessionTitle; got != "Second Draft" {
		t.Fatalf("expected second call content, got %q", got)
	}
}

func TestGenerateSessionSectionsFillSessionDuration(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 1)))
	env.ai.handler = func(schemaName, user string, call int) (map[string]any, error) {
		return asMapAny(sampleBlueprint("Timed Session", 1, 1)), nil
	}
	svc := env.curriculumService()

	session, err := svc.GenerateSession(teacherCtx(), plan.ID, 1, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	bp := session.Blueprint.Data()
	if got := bp.SectionDurationTotal(); got != course.SessionDuration {
		t.Fatalf("section durations sum to %d, want session duration %d", got, course.SessionDuration)
	}
}

func TestPlanAccessScopedToOwningTeacher(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 1)))
	session := seedSession(t, env.db, plan.ID, 1, 1, "Convolution Basics")
	svc := env.curriculumService()
	intruder := otherTeacherCtx()

	if _, err := svc.GetCourse(intruder, course.ID); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found for foreign course, got %v", err)
	}
	if _, err := svc.GetPlan(intruder, plan.ID); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found for foreign plan, got %v", err)
	}
	if _, err := svc.GetSession(intruder, session.ID); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found for foreign session, got %v", err)
	}
	if err := svc.DeletePlan(intruder, plan.ID); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found deleting foreign plan, got %v", err)
	}

	// the owner still sees the plan untouched
	if _, err := svc.GetPlan(teacherCtx(), plan.ID); err != nil {
		t.Fatalf("owner lost access: %v", err)
	}
}

func TestOperationsRequireAuthenticatedTeacher(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	svc := env.curriculumService()

	if _, err := svc.GetCourse(context.Background(), course.ID); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized without identity, got %v", err)
	}
	if _, err := svc.ListCourses(context.Background()); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized list, got %v", err)
	}
}

func TestGenerateSessionValidatesWeekAndNumber(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 2)))
	svc := env.curriculumService()
	ctx := teacherCtx()

	if _, err := svc.GenerateSession(ctx, plan.ID, 5, 1); apierr.CodeOf(err) != apierr.CodePrecondition {
		t.Fatalf("expected precondition for missing week, got %v", err)
	}
	if _, err := svc.GenerateSession(ctx, plan.ID, 1, 3); apierr.CodeOf(err) != apierr.CodePrecondition {
		t.Fatalf("expected precondition for session out of range, got %v", err)
	}
}

func TestGenerateAllSessionsIsolatesFailures(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 2), macroWeek(2, 2)))
	svc := env.curriculumService()
	ctx := teacherCtx()

	failMarker := "Set weekNumber=2, sessionNumber=1"
	env.ai.handler = func(schemaName, user string, call int) (map[string]any, error) {
		if strings.Contains(user, failMarker) {
			return nil, fmt.Errorf("generator unavailable")
		}
		return asMapAny(sampleBlueprint("Generated", 0, 0)), nil
	}

	result, err := svc.GenerateAllSessions(ctx, plan.ID)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if result.Generated != 3 {
		t.Fatalf("expected 3 generated, got %d", result.Generated)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failed))
	}
	if result.Failed[0].WeekNumber != 2 || result.Failed[0].SessionNumber != 1 {
		t.Fatalf("unexpected failed pair: %+v", result.Failed[0])
	}

	// retrying just the failed pair must not duplicate the others
	env.ai.handler = func(schemaName, user string, call int) (map[string]any, error) {
		return asMapAny(sampleBlueprint("Retried", 2, 1)), nil
	}
	if _, err := svc.GenerateSession(ctx, plan.ID, 2, 1); err != nil {
		t.Fatalf("retry: %v", err)
	}
	sessions, err := svc.ListSessions(ctx, plan.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 4 {
		t.Fatalf("expected 4 sessions after retry, got %d", len(sessions))
	}
}

func TestGenerateToolkitRequiresBlueprint(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 1)))
	session := seedSession(t, env.db, plan.ID, 1, 1, "")
	svc := env.curriculumService()

	_, err := svc.GenerateToolkit(teacherCtx(), session.ID)
	if apierr.CodeOf(err) != apierr.CodePrecondition {
		t.Fatalf("expected precondition, got %v", err)
	}
}

func TestGenerateToolkitStoresPayload(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 1)))
	session := seedSession(t, env.db, plan.ID, 1, 1, "Convolution Basics")
	env.ai.handler = func(schemaName, user string, call int) (map[string]any, error) {
		if schemaName != "engagement_toolkit" {
			return nil, fmt.Errorf("unexpected schema %s", schemaName)
		}
		return map[string]any{"topic": "Convolution", "analogies": []any{}}, nil
	}
	svc := env.curriculumService()

	updated, err := svc.GenerateToolkit(teacherCtx(), session.ID)
	if err != nil {
		t.Fatalf("toolkit: %v", err)
	}
	if len(updated.Toolkit) == 0 {
		t.Fatalf("toolkit payload not stored")
	}
}

func TestRegenerateDispatch(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 1)))
	session := seedSession(t, env.db, plan.ID, 1, 1, "Convolution Basics")
	env.ai.handler = func(schemaName, user string, call int) (map[string]any, error) {
		switch schemaName {
		case "engagement_toolkit":
			return map[string]any{"topic": "x"}, nil
		case "session_blueprint":
			return asMapAny(sampleBlueprint("Redone", 1, 1)), nil
		default:
			return nil, fmt.Errorf("unexpected schema %s", schemaName)
		}
	}
	svc := env.curriculumService()
	ctx := teacherCtx()

	if _, err := svc.Regenerate(ctx, RegenerateRequest{Scope: "bogus"}); apierr.CodeOf(err) != apierr.CodePrecondition {
		t.Fatalf("expected precondition for unknown scope, got %v", err)
	}
	if _, err := svc.Regenerate(ctx, RegenerateRequest{Scope: RegenerateToolkit, SessionID: session.ID}); err != nil {
		t.Fatalf("toolkit dispatch: %v", err)
	}
	if _, err := svc.Regenerate(ctx, RegenerateRequest{Scope: RegenerateSession, PlanID: plan.ID, WeekNumber: 1, SessionNumber: 1}); err != nil {
		t.Fatalf("session dispatch: %v", err)
	}
}

func TestUpdateSessionStatusTaughtSetsTimestamp(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 1)))
	session := seedSession(t, env.db, plan.ID, 1, 1, "Convolution Basics")
	svc := env.curriculumService()

	updated, err := svc.UpdateSessionStatus(teacherCtx(), session.ID, types.SessionStatusTaught)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != types.SessionStatusTaught {
		t.Fatalf("status not updated: %s", updated.Status)
	}
	if updated.TaughtAt == nil {
		t.Fatalf("taught_at not set")
	}
}

func TestDeletePlanCascades(t *testing.T) {
	env := newTestEnv(t)
	course := seedCourse(t, env.db)
	plan := seedPlan(t, env.db, course.ID, 1, sampleMacro(macroWeek(1, 1)))
	session := seedSession(t, env.db, plan.ID, 1, 1, "Convolution Basics")
	if err := env.db.Create(&types.SessionResource{
		ID:        session.ID,
		SessionID: session.ID,
		Title:     "Video",
		URL:       "https://example.org/v",
	}).Error; err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	svc := env.curriculumService()
	ctx := teacherCtx()

	if err := svc.DeletePlan(ctx, plan.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetPlan(ctx, plan.ID); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("plan still present: %v", err)
	}
	var sessionCount, resourceCount int64
	env.db.Model(&types.Session{}).Where("plan_id = ?", plan.ID).Count(&sessionCount)
	env.db.Model(&types.SessionResource{}).Where("session_id = ?", session.ID).Count(&resourceCount)
	if sessionCount != 0 || resourceCount != 0 {
		t.Fatalf("cascade left rows: sessions=%d resources=%d", sessionCount, resourceCount)
	}
}
