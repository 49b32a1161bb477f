package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/types"
)

type AdaptationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, adaptation *types.Adaptation) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Adaptation, error)
  ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.Adaptation, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
  DeleteByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error
}

type adaptationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAdaptationRepo(db *gorm.DB, baseLog *logger.Logger) AdaptationRepo {
  return &adaptationRepo{db: db, log: baseLog.With("repo", "AdaptationRepo")}
}

func (r *adaptationRepo) Create(ctx context.Context, tx *gorm.DB, adaptation *types.Adaptation) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(adaptation).Error; err != nil {
    r.log.Error("failed to create adaptation", "plan_id", adaptation.PlanID, "error", err)
    return err
  }
  return nil
}

func (r *adaptationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Adaptation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var adaptation types.Adaptation
  if err := transaction.WithContext(ctx).Where("id = ?", id).First(&adaptation).Error; err != nil {
    return nil, err
  }
  return &adaptation, nil
}

func (r *adaptationRepo) ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.Adaptation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var adaptations []types.Adaptation
  if err := transaction.WithContext(ctx).
    Where("plan_id = ?", planID).
    Order("created_at DESC").
    Find(&adaptations).Error; err != nil {
    return nil, err
  }
  return adaptations, nil
}

func (r *adaptationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Adaptation{}).
    Where("id = ?", id).
    Updates(fields).Error; err != nil {
    r.log.Error("failed to update adaptation", "adaptation_id", id, "error", err)
    return err
  }
  return nil
}

func (r *adaptationRepo) DeleteByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Where("plan_id = ?", planID).Delete(&types.Adaptation{}).Error
}
