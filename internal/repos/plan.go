package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/types"
)

type PlanRepo interface {
  Create(ctx context.Context, tx *gorm.DB, plan *types.Plan) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Plan, error)
  ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]types.Plan, error)
  LatestByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Plan, error)
  NextVersionForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type planRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
  return &planRepo{db: db, log: baseLog.With("repo", "PlanRepo")}
}

func (r *planRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.Plan) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(plan).Error; err != nil {
    r.log.Error("failed to create plan", "course_id", plan.CourseID, "error", err)
    return err
  }
  return nil
}

func (r *planRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Plan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var plan types.Plan
  if err := transaction.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
    return nil, err
  }
  return &plan, nil
}

func (r *planRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]types.Plan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var plans []types.Plan
  if err := transaction.WithContext(ctx).
    Where("course_id = ?", courseID).
    Order("version DESC").
    Find(&plans).Error; err != nil {
    return nil, err
  }
  return plans, nil
}

func (r *planRepo) LatestByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Plan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var plan types.Plan
  if err := transaction.WithContext(ctx).
    Where("course_id = ?", courseID).
    Order("version DESC").
    First(&plan).Error; err != nil {
    return nil, err
  }
  return &plan, nil
}

// NextVersionForCourse returns max(version)+1 scoped to the course, starting
// at 1 when the course has no plans yet.
func (r *planRepo) NextVersionForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var maxVersion int
  if err := transaction.WithContext(ctx).
    Model(&types.Plan{}).
    Where("course_id = ?", courseID).
    Select("COALESCE(MAX(version), 0)").
    Scan(&maxVersion).Error; err != nil {
    return 0, err
  }
  return maxVersion + 1, nil
}

func (r *planRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Plan{}).
    Where("id = ?", id).
    Updates(fields).Error; err != nil {
    r.log.Error("failed to update plan", "plan_id", id, "error", err)
    return err
  }
  return nil
}

func (r *planRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Plan{}).Error
}
