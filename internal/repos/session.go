package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/types"
)

type SessionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, session *types.Session) error
  Save(ctx context.Context, tx *gorm.DB, session *types.Session) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Session, error)
  GetByPlanWeekNumber(ctx context.Context, tx *gorm.DB, planID uuid.UUID, weekNumber, sessionNumber int) (*types.Session, error)
  ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.Session, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
  DeleteByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error
}

type sessionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
  return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.Session) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
    r.log.Error("failed to create session", "plan_id", session.PlanID, "error", err)
    return err
  }
  return nil
}

func (r *sessionRepo) Save(ctx context.Context, tx *gorm.DB, session *types.Session) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Save(session).Error; err != nil {
    r.log.Error("failed to save session", "session_id", session.ID, "error", err)
    return err
  }
  return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var session types.Session
  if err := transaction.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
    return nil, err
  }
  return &session, nil
}

func (r *sessionRepo) GetByPlanWeekNumber(ctx context.Context, tx *gorm.DB, planID uuid.UUID, weekNumber, sessionNumber int) (*types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var session types.Session
  if err := transaction.WithContext(ctx).
    Where("plan_id = ? AND week_number = ? AND session_number = ?", planID, weekNumber, sessionNumber).
    First(&session).Error; err != nil {
    return nil, err
  }
  return &session, nil
}

func (r *sessionRepo) ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.Session, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var sessions []types.Session
  if err := transaction.WithContext(ctx).
    Where("plan_id = ?", planID).
    Order("week_number ASC, session_number ASC").
    Find(&sessions).Error; err != nil {
    return nil, err
  }
  return sessions, nil
}

func (r *sessionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Session{}).
    Where("id = ?", id).
    Updates(fields).Error; err != nil {
    r.log.Error("failed to update session", "session_id", id, "error", err)
    return err
  }
  return nil
}

func (r *sessionRepo) DeleteByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Where("plan_id = ?", planID).Delete(&types.Session{}).Error
}
