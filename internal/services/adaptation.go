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

type CreateAdaptationRequest struct {
  PlanID      uuid.UUID               `json:"plan_id"`
  TriggerType types.AdaptationTrigger `json:"trigger_type"`
  TriggerData map[string]any          `json:"trigger_data,omitempty"`
}

type RespondAdaptationRequest struct {
  AdaptationID   uuid.UUID              `json:"adaptation_id"`
  Status         types.AdaptationStatus `json:"status"`
  Customizations map[string]any         `json:"customizations,omitempty"`
}

type AdaptationService interface {
  Create(ctx context.Context, req CreateAdaptationRequest) (*types.Adaptation, error)
  Respond(ctx context.Context, req RespondAdaptationRequest) (*types.Adaptation, error)
  ListByPlan(ctx context.Context, planID uuid.UUID) ([]types.Adaptation, error)
}

type adaptationService struct {
  db         *gorm.DB
  log        *logger.Logger
  ai         AIClient
  planRepo   repos.PlanRepo
  courseRepo repos.CourseRepo
  adaptRepo  repos.AdaptationRepo

  aiTimeout time.Duration
}

func NewAdaptationService(
  db *gorm.DB,
  baseLog *logger.Logger,
  ai AIClient,
  planRepo repos.PlanRepo,
  courseRepo repos.CourseRepo,
  adaptRepo repos.AdaptationRepo,
) AdaptationService {
  log := baseLog.With("service", "AdaptationService")
  timeoutSec := utils.GetEnvAsInt("CURRICULUM_AI_TIMEOUT_SECONDS", 300, log)
  return &adaptationService{
    db:         db,
    log:        log,
    ai:         ai,
    planRepo:   planRepo,
    courseRepo: courseRepo,
    adaptRepo:  adaptRepo,
    aiTimeout:  time.Duration(timeoutSec) * time.Second,
  }
}

// Create asks the generator for a plan-change suggestion and stores it as
// PENDING. Accepting a suggestion never rewrites the plan's macro plan; the
// teacher applies changes explicitly through regeneration.
func (s *adaptationService) Create(ctx context.Context, req CreateAdaptationRequest) (*types.Adaptation, error) {
  switch req.TriggerType {
  case types.TriggerLowQuizScores, types.TriggerStudentFeedback, types.TriggerPacingIssue,
    types.TriggerTeacherRequest, types.TriggerAttendanceDrop:
  default:
    return nil, apierr.Precondition("invalid trigger type %q", req.TriggerType)
  }

  plan, course, err := ownedPlan(ctx, nil, s.planRepo, s.courseRepo, req.PlanID)
  if err != nil {
    return nil, err
  }

  macro := plan.Macroplan.Data()
  macroJSON, err := json.Marshal(macro)
  if err != nil {
    return nil, err
  }
  triggerJSON := []byte("{}")
  if req.TriggerData != nil {
    if triggerJSON, err = json.Marshal(req.TriggerData); err != nil {
      return nil, err
    }
  }

  profile := profileFromCourse(course)
  aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
  defer cancel()
  obj, err := s.ai.GenerateJSON(aiCtx,
    curriculum.AdaptationSystemPrompt,
    curriculum.BuildAdaptationPrompt(profile, string(macroJSON), string(req.TriggerType), string(triggerJSON)),
    "adaptation_suggestion",
    curriculum.AdaptationSuggestionSchema(),
  )
  if err != nil {
    s.log.Error("adaptation suggestion failed", "plan_id", req.PlanID, "error", err)
    return nil, apierr.Upstream(err)
  }

  var suggestion curriculum.AdaptationSuggestion
  if err := decodeInto(obj, &suggestion); err != nil {
    return nil, apierr.Upstream(fmt.Errorf("adaptation decode: %w", err))
  }
  suggestionJSON, err := json.Marshal(suggestion.Suggestion)
  if err != nil {
    return nil, err
  }

  adaptation := &types.Adaptation{
    ID:          uuid.New(),
    PlanID:      req.PlanID,
    TriggerType: req.TriggerType,
    TriggerData: datatypes.JSON(triggerJSON),
    Suggestion:  datatypes.JSON(suggestionJSON),
    Reasoning:   suggestion.Reasoning,
    Status:      types.AdaptationPending,
  }
  if err := s.adaptRepo.Create(ctx, nil, adaptation); err != nil {
    return nil, err
  }
  s.log.Info("adaptation created", "plan_id", req.PlanID, "adaptation_id", adaptation.ID, "trigger", req.TriggerType)
  return adaptation, nil
}

// Respond moves a PENDING adaptation into a terminal state. Terminal
// adaptations reject further responses and keep their original outcome.
func (s *adaptationService) Respond(ctx context.Context, req RespondAdaptationRequest) (*types.Adaptation, error) {
  switch req.Status {
  case types.AdaptationAccepted, types.AdaptationRejected, types.AdaptationPartiallyAccepted:
  default:
    return nil, apierr.Precondition("invalid response status %q", req.Status)
  }

  adaptation, err := s.adaptRepo.GetByID(ctx, nil, req.AdaptationID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("adaptation %s not found", req.AdaptationID)
    }
    return nil, err
  }
  if _, _, err := ownedPlan(ctx, nil, s.planRepo, s.courseRepo, adaptation.PlanID); err != nil {
    if apierr.CodeOf(err) == apierr.CodeNotFound {
      return nil, apierr.NotFound("adaptation %s not found", req.AdaptationID)
    }
    return nil, err
  }
  if adaptation.Status != types.AdaptationPending {
    return nil, apierr.InvalidTransition("adaptation %s already responded with %s", adaptation.ID, adaptation.Status)
  }

  fields := map[string]any{
    "status":       req.Status,
    "responded_at": time.Now().UTC(),
  }

  if len(req.Customizations) > 0 &&
    (req.Status == types.AdaptationAccepted || req.Status == types.AdaptationPartiallyAccepted) {
    var suggestion map[string]any
    if len(adaptation.Suggestion) > 0 {
      if err := json.Unmarshal(adaptation.Suggestion, &suggestion); err != nil {
        suggestion = map[string]any{}
      }
    } else {
      suggestion = map[string]any{}
    }
    suggestion["appliedCustomizations"] = req.Customizations
    merged, err := json.Marshal(suggestion)
    if err != nil {
      return nil, err
    }
    fields["suggestion"] = datatypes.JSON(merged)
  }

  if err := s.adaptRepo.UpdateFields(ctx, nil, adaptation.ID, fields); err != nil {
    return nil, err
  }
  return s.adaptRepo.GetByID(ctx, nil, adaptation.ID)
}

func (s *adaptationService) ListByPlan(ctx context.Context, planID uuid.UUID) ([]types.Adaptation, error) {
  if _, _, err := ownedPlan(ctx, nil, s.planRepo, s.courseRepo, planID); err != nil {
    return nil, err
  }
  return s.adaptRepo.ListByPlan(ctx, nil, planID)
}
