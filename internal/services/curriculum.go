package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/apierr"
  "github.com/courseloom/backend/internal/curriculum"
  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/repos"
  "github.com/courseloom/backend/internal/types"
  "github.com/courseloom/backend/internal/utils"
)

// RegenerateScope selects which pipeline stage a regeneration request runs.
type RegenerateScope string

const (
  RegenerateMacroPlan RegenerateScope = "macroplan"
  RegenerateSession   RegenerateScope = "session"
  RegenerateToolkit   RegenerateScope = "toolkit"
)

type RegenerateRequest struct {
  Scope         RegenerateScope `json:"scope"`
  CourseID      uuid.UUID       `json:"course_id,omitempty"`
  PlanID        uuid.UUID       `json:"plan_id,omitempty"`
  SessionID     uuid.UUID       `json:"session_id,omitempty"`
  WeekNumber    int             `json:"week_number,omitempty"`
  SessionNumber int             `json:"session_number,omitempty"`
}

// SessionFailure records one failed item of a batch generation.
type SessionFailure struct {
  WeekNumber    int    `json:"week_number"`
  SessionNumber int    `json:"session_number"`
  Error         string `json:"error"`
}

type BatchGenerationResult struct {
  Generated int              `json:"generated"`
  Failed    []SessionFailure `json:"failed"`
}

type CurriculumService interface {
  CreateCourse(ctx context.Context, course *types.Course) (*types.Course, error)
  GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error)
  ListCourses(ctx context.Context) ([]types.Course, error)
  UpdateCourse(ctx context.Context, id uuid.UUID, fields map[string]any) (*types.Course, error)

  GenerateMacroPlan(ctx context.Context, courseID uuid.UUID) (*types.Plan, error)
  GenerateSession(ctx context.Context, planID uuid.UUID, weekNumber, sessionNumber int) (*types.Session, error)
  GenerateAllSessions(ctx context.Context, planID uuid.UUID) (*BatchGenerationResult, error)
  GenerateToolkit(ctx context.Context, sessionID uuid.UUID) (*types.Session, error)
  Regenerate(ctx context.Context, req RegenerateRequest) (any, error)

  GetPlan(ctx context.Context, id uuid.UUID) (*types.Plan, error)
  ListPlans(ctx context.Context, courseID uuid.UUID) ([]types.Plan, error)
  UpdatePlanStatus(ctx context.Context, id uuid.UUID, status types.PlanStatus) (*types.Plan, error)
  DeletePlan(ctx context.Context, id uuid.UUID) error

  GetSession(ctx context.Context, id uuid.UUID) (*types.Session, error)
  ListSessions(ctx context.Context, planID uuid.UUID) ([]types.Session, error)
  UpdateSessionStatus(ctx context.Context, id uuid.UUID, status types.SessionStatus) (*types.Session, error)
  UpdateSessionNotes(ctx context.Context, id uuid.UUID, notes string) (*types.Session, error)
}

type curriculumService struct {
  db          *gorm.DB
  log         *logger.Logger
  ai          AIClient
  courseRepo  repos.CourseRepo
  planRepo    repos.PlanRepo
  sessionRepo repos.SessionRepo
  eventRepo   repos.CalendarEventRepo
  adaptRepo   repos.AdaptationRepo
  resRepo     repos.SessionResourceRepo

  aiTimeout time.Duration
}

func NewCurriculumService(
  db *gorm.DB,
  baseLog *logger.Logger,
  ai AIClient,
  courseRepo repos.CourseRepo,
  planRepo repos.PlanRepo,
  sessionRepo repos.SessionRepo,
  eventRepo repos.CalendarEventRepo,
  adaptRepo repos.AdaptationRepo,
  resRepo repos.SessionResourceRepo,
) CurriculumService {
  log := baseLog.With("service", "CurriculumService")
  timeoutSec := utils.GetEnvAsInt("CURRICULUM_AI_TIMEOUT_SECONDS", 300, log)
  return &curriculumService{
    db:          db,
    log:         log,
    ai:          ai,
    courseRepo:  courseRepo,
    planRepo:    planRepo,
    sessionRepo: sessionRepo,
    eventRepo:   eventRepo,
    adaptRepo:   adaptRepo,
    resRepo:     resRepo,
    aiTimeout:   time.Duration(timeoutSec) * time.Second,
  }
}

// decodeInto round-trips a schema-shaped map into a typed struct.
func decodeInto(obj map[string]any, out any) error {
  raw, err := json.Marshal(obj)
  if err != nil {
    return err
  }
  return json.Unmarshal(raw, out)
}

func profileFromCourse(course *types.Course) curriculum.CourseProfile {
  var outcomes []string
  if len(course.Outcomes) > 0 {
    _ = json.Unmarshal(course.Outcomes, &outcomes)
  }
  return curriculum.CourseProfile{
    CourseName:       course.CourseName,
    CourseCode:       course.CourseCode,
    Subject:          course.Subject,
    Department:       course.Department,
    StudentLevel:     course.StudentLevel,
    TotalWeeks:       course.TotalWeeks,
    HoursPerWeek:     course.HoursPerWeek,
    SessionDuration:  course.SessionDuration,
    SessionsPerWeek:  course.SessionsPerWeek,
    SessionType:      string(course.SessionType),
    ClassSize:        course.ClassSize,
    ClassVibe:        string(course.ClassVibe),
    PrimaryChallenge: string(course.PrimaryChallenge),
    AdditionalNotes:  course.AdditionalNotes,
    Outcomes:         outcomes,
  }
}

func (s *curriculumService) withAITimeout(ctx context.Context) (context.Context, context.CancelFunc) {
  return context.WithTimeout(ctx, s.aiTimeout)
}

// ---- Courses ----

func (s *curriculumService) CreateCourse(ctx context.Context, course *types.Course) (*types.Course, error) {
  teacherID, err := teacherFrom(ctx)
  if err != nil {
    return nil, err
  }
  course.TeacherID = teacherID
  if course.ID == uuid.Nil {
    course.ID = uuid.New()
  }
  if course.StudentLevel == "" {
    course.StudentLevel = "Undergraduate"
  }
  if course.SessionType == "" {
    course.SessionType = types.SessionTypeLecture
  }
  if course.ClassVibe == "" {
    course.ClassVibe = types.ClassVibeMixed
  }
  if err := s.courseRepo.Create(ctx, nil, course); err != nil {
    return nil, err
  }
  s.log.Info("course created", "course_id", course.ID, "course_name", course.CourseName)
  return course, nil
}

func (s *curriculumService) GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error) {
  return ownedCourse(ctx, nil, s.courseRepo, id)
}

func (s *curriculumService) ListCourses(ctx context.Context) ([]types.Course, error) {
  teacherID, err := teacherFrom(ctx)
  if err != nil {
    return nil, err
  }
  return s.courseRepo.ListByTeacher(ctx, nil, teacherID)
}

func (s *curriculumService) UpdateCourse(ctx context.Context, id uuid.UUID, fields map[string]any) (*types.Course, error) {
  if _, err := s.GetCourse(ctx, id); err != nil {
    return nil, err
  }
  if err := s.courseRepo.UpdateFields(ctx, nil, id, fields); err != nil {
    return nil, err
  }
  return s.courseRepo.GetByID(ctx, nil, id)
}

// ---- Macro plan ----

// GenerateMacroPlan produces a new plan version for the course. Existing
// versions are never touched; the new row gets max(version)+1.
func (s *curriculumService) GenerateMacroPlan(ctx context.Context, courseID uuid.UUID) (*types.Plan, error) {
  course, err := s.GetCourse(ctx, courseID)
  if err != nil {
    return nil, err
  }

  profile := profileFromCourse(course)
  aiCtx, cancel := s.withAITimeout(ctx)
  defer cancel()
  obj, err := s.ai.GenerateJSON(aiCtx,
    curriculum.MacroPlanSystemPrompt,
    curriculum.BuildMacroPlanPrompt(profile),
    "macro_plan",
    curriculum.MacroPlanSchema(),
  )
  if err != nil {
    s.log.Error("macro plan generation failed", "course_id", courseID, "error", err)
    return nil, apierr.Upstream(err)
  }

  var macro curriculum.MacroPlan
  if err := decodeInto(obj, &macro); err != nil {
    return nil, apierr.Upstream(fmt.Errorf("macro plan decode: %w", err))
  }
  if err := curriculum.ValidateMacroPlan(&macro); err != nil {
    return nil, apierr.Upstream(fmt.Errorf("macro plan invalid: %w", err))
  }

  var plan *types.Plan
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    version, vErr := s.planRepo.NextVersionForCourse(ctx, tx, courseID)
    if vErr != nil {
      return vErr
    }
    now := time.Now().UTC()
    plan = &types.Plan{
      ID:          uuid.New(),
      CourseID:    courseID,
      Version:     version,
      Status:      types.PlanStatusDraft,
      Macroplan:   datatypes.NewJSONType(macro),
      GeneratedAt: now,
    }
    return s.planRepo.Create(ctx, tx, plan)
  })
  if err != nil {
    return nil, err
  }

  s.log.Info("macro plan generated",
    "course_id", courseID,
    "plan_id", plan.ID,
    "version", plan.Version,
    "weeks", len(macro.Weeks),
  )
  return plan, nil
}

// ---- Sessions ----

// GenerateSession creates or overwrites the blueprint for one
// (plan, week, session) slot. Regenerating an existing slot updates the row
// in place so downstream references stay valid.
func (s *curriculumService) GenerateSession(ctx context.Context, planID uuid.UUID, weekNumber, sessionNumber int) (*types.Session, error) {
  plan, course, err := ownedPlan(ctx, nil, s.planRepo, s.courseRepo, planID)
  if err != nil {
    return nil, err
  }

  macro := plan.Macroplan.Data()
  week := macro.Week(weekNumber)
  if week == nil {
    return nil, apierr.Precondition("plan %s has no week %d", planID, weekNumber)
  }
  if sessionNumber < 1 || sessionNumber > week.SessionCount {
    return nil, apierr.Precondition("week %d has %d sessions, requested session %d", weekNumber, week.SessionCount, sessionNumber)
  }

  profile := profileFromCourse(course)
  aiCtx, cancel := s.withAITimeout(ctx)
  defer cancel()
  obj, err := s.ai.GenerateJSON(aiCtx,
    curriculum.SessionBlueprintSystemPrompt,
    curriculum.BuildSessionPrompt(profile, *week, sessionNumber),
    "session_blueprint",
    curriculum.SessionBlueprintSchema(),
  )
  if err != nil {
    s.log.Error("session generation failed",
      "plan_id", planID, "week", weekNumber, "session", sessionNumber, "error", err)
    return nil, apierr.Upstream(err)
  }

  var blueprint curriculum.SessionBlueprint
  if err := decodeInto(obj, &blueprint); err != nil {
    return nil, apierr.Upstream(fmt.Errorf("blueprint decode: %w", err))
  }
  if err := curriculum.ValidateBlueprint(&blueprint); err != nil {
    return nil, apierr.Upstream(fmt.Errorf("blueprint invalid: %w", err))
  }
  blueprint.WeekNumber = weekNumber
  blueprint.SessionNumber = sessionNumber

  now := time.Now().UTC()
  existing, err := s.sessionRepo.GetByPlanWeekNumber(ctx, nil, planID, weekNumber, sessionNumber)
  if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, err
  }

  if existing != nil {
    existing.Blueprint = datatypes.NewJSONType(blueprint)
    existing.GeneratedAt = now
    existing.Status = types.SessionStatusGenerated
    if err := s.sessionRepo.Save(ctx, nil, existing); err != nil {
      return nil, err
    }
    return existing, nil
  }

  session := &types.Session{
    ID:            uuid.New(),
    PlanID:        planID,
    WeekNumber:    weekNumber,
    SessionNumber: sessionNumber,
    Blueprint:     datatypes.NewJSONType(blueprint),
    Status:        types.SessionStatusGenerated,
    GeneratedAt:   now,
  }
  if err := s.sessionRepo.Create(ctx, nil, session); err != nil {
    return nil, err
  }
  return session, nil
}

// GenerateAllSessions walks every (week, session) slot of the plan. Each slot
// is generated independently: a failure is recorded and the walk continues,
// so one bad generation never loses the rest of the batch.
func (s *curriculumService) GenerateAllSessions(ctx context.Context, planID uuid.UUID) (*BatchGenerationResult, error) {
  plan, err := s.GetPlan(ctx, planID)
  if err != nil {
    return nil, err
  }

  macro := plan.Macroplan.Data()
  result := &BatchGenerationResult{Failed: []SessionFailure{}}
  for _, week := range macro.Weeks {
    for num := 1; num <= week.SessionCount; num++ {
      if ctx.Err() != nil {
        return result, ctx.Err()
      }
      if _, genErr := s.GenerateSession(ctx, planID, week.WeekNumber, num); genErr != nil {
        s.log.Warn("batch session generation item failed",
          "plan_id", planID, "week", week.WeekNumber, "session", num, "error", genErr)
        result.Failed = append(result.Failed, SessionFailure{
          WeekNumber:    week.WeekNumber,
          SessionNumber: num,
          Error:         genErr.Error(),
        })
        continue
      }
      result.Generated++
    }
  }

  s.log.Info("batch session generation finished",
    "plan_id", planID, "generated", result.Generated, "failed", len(result.Failed))
  return result, nil
}

// GenerateToolkit attaches an engagement toolkit to a session that already
// has a blueprint.
func (s *curriculumService) GenerateToolkit(ctx context.Context, sessionID uuid.UUID) (*types.Session, error) {
  session, _, course, err := ownedSession(ctx, nil, s.sessionRepo, s.planRepo, s.courseRepo, sessionID)
  if err != nil {
    return nil, err
  }
  blueprint := session.Blueprint.Data()
  if blueprint.IsZero() {
    return nil, apierr.Precondition("session %s has no blueprint yet", sessionID)
  }

  profile := profileFromCourse(course)
  aiCtx, cancel := s.withAITimeout(ctx)
  defer cancel()
  obj, err := s.ai.GenerateJSON(aiCtx,
    curriculum.EngagementToolkitSystemPrompt,
    curriculum.BuildToolkitPrompt(profile, blueprint),
    "engagement_toolkit",
    curriculum.EngagementToolkitSchema(),
  )
  if err != nil {
    s.log.Error("toolkit generation failed", "session_id", sessionID, "error", err)
    return nil, apierr.Upstream(err)
  }

  raw, err := json.Marshal(obj)
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("toolkit encode: %w", err))
  }
  if err := s.sessionRepo.UpdateFields(ctx, nil, sessionID, map[string]any{
    "toolkit": datatypes.JSON(raw),
  }); err != nil {
    return nil, err
  }
  return s.sessionRepo.GetByID(ctx, nil, sessionID)
}

// Regenerate dispatches to the stage named by the request scope.
func (s *curriculumService) Regenerate(ctx context.Context, req RegenerateRequest) (any, error) {
  switch req.Scope {
  case RegenerateMacroPlan:
    if req.CourseID == uuid.Nil {
      return nil, apierr.Precondition("course_id required for macroplan regeneration")
    }
    return s.GenerateMacroPlan(ctx, req.CourseID)
  case RegenerateSession:
    if req.PlanID == uuid.Nil || req.WeekNumber == 0 || req.SessionNumber == 0 {
      return nil, apierr.Precondition("plan_id, week_number and session_number required for session regeneration")
    }
    return s.GenerateSession(ctx, req.PlanID, req.WeekNumber, req.SessionNumber)
  case RegenerateToolkit:
    if req.SessionID == uuid.Nil {
      return nil, apierr.Precondition("session_id required for toolkit regeneration")
    }
    return s.GenerateToolkit(ctx, req.SessionID)
  default:
    return nil, apierr.Precondition("unknown regeneration scope %q", req.Scope)
  }
}

// ---- Plans ----

func (s *curriculumService) GetPlan(ctx context.Context, id uuid.UUID) (*types.Plan, error) {
  plan, _, err := ownedPlan(ctx, nil, s.planRepo, s.courseRepo, id)
  return plan, err
}

func (s *curriculumService) ListPlans(ctx context.Context, courseID uuid.UUID) ([]types.Plan, error) {
  if _, err := s.GetCourse(ctx, courseID); err != nil {
    return nil, err
  }
  return s.planRepo.ListByCourse(ctx, nil, courseID)
}

func (s *curriculumService) UpdatePlanStatus(ctx context.Context, id uuid.UUID, status types.PlanStatus) (*types.Plan, error) {
  switch status {
  case types.PlanStatusDraft, types.PlanStatusActive, types.PlanStatusArchived, types.PlanStatusCompleted:
  default:
    return nil, apierr.Precondition("invalid plan status %q", status)
  }
  if _, err := s.GetPlan(ctx, id); err != nil {
    return nil, err
  }
  if err := s.planRepo.UpdateFields(ctx, nil, id, map[string]any{"status": status}); err != nil {
    return nil, err
  }
  return s.planRepo.GetByID(ctx, nil, id)
}

// DeletePlan removes the plan and everything hanging off it. The cascade is
// explicit so it works identically across databases.
func (s *curriculumService) DeletePlan(ctx context.Context, id uuid.UUID) error {
  if _, err := s.GetPlan(ctx, id); err != nil {
    return err
  }
  return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    sessions, err := s.sessionRepo.ListByPlan(ctx, tx, id)
    if err != nil {
      return err
    }
    sessionIDs := make([]uuid.UUID, 0, len(sessions))
    for _, sess := range sessions {
      sessionIDs = append(sessionIDs, sess.ID)
    }
    if err := s.resRepo.DeleteBySessionIDs(ctx, tx, sessionIDs); err != nil {
      return err
    }
    if err := s.sessionRepo.DeleteByPlanID(ctx, tx, id); err != nil {
      return err
    }
    if err := s.eventRepo.DeleteByPlanID(ctx, tx, id); err != nil {
      return err
    }
    if err := s.adaptRepo.DeleteByPlanID(ctx, tx, id); err != nil {
      return err
    }
    return s.planRepo.Delete(ctx, tx, id)
  })
}

// ---- Session reads and status ----

func (s *curriculumService) GetSession(ctx context.Context, id uuid.UUID) (*types.Session, error) {
  session, _, _, err := ownedSession(ctx, nil, s.sessionRepo, s.planRepo, s.courseRepo, id)
  return session, err
}

func (s *curriculumService) ListSessions(ctx context.Context, planID uuid.UUID) ([]types.Session, error) {
  if _, err := s.GetPlan(ctx, planID); err != nil {
    return nil, err
  }
  return s.sessionRepo.ListByPlan(ctx, nil, planID)
}

func (s *curriculumService) UpdateSessionStatus(ctx context.Context, id uuid.UUID, status types.SessionStatus) (*types.Session, error) {
  switch status {
  case types.SessionStatusGenerated, types.SessionStatusReviewed, types.SessionStatusScheduled,
    types.SessionStatusTaught, types.SessionStatusNeedsRevision:
  default:
    return nil, apierr.Precondition("invalid session status %q", status)
  }
  if _, err := s.GetSession(ctx, id); err != nil {
    return nil, err
  }
  fields := map[string]any{"status": status}
  if status == types.SessionStatusTaught {
    fields["taught_at"] = time.Now().UTC()
  }
  if err := s.sessionRepo.UpdateFields(ctx, nil, id, fields); err != nil {
    return nil, err
  }
  return s.sessionRepo.GetByID(ctx, nil, id)
}

func (s *curriculumService) UpdateSessionNotes(ctx context.Context, id uuid.UUID, notes string) (*types.Session, error) {
  if _, err := s.GetSession(ctx, id); err != nil {
    return nil, err
  }
  if err := s.sessionRepo.UpdateFields(ctx, nil, id, map[string]any{"teacher_notes": notes}); err != nil {
    return nil, err
  }
  return s.sessionRepo.GetByID(ctx, nil, id)
}
