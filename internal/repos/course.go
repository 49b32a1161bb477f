package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/types"
)

type CourseRepo interface {
  Create(ctx context.Context, tx *gorm.DB, course *types.Course) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
  ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]types.Course, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type courseRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
  return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, course *types.Course) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(course).Error; err != nil {
    r.log.Error("failed to create course", "error", err)
    return err
  }
  return nil
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var course types.Course
  if err := transaction.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
    return nil, err
  }
  return &course, nil
}

func (r *courseRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]types.Course, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var courses []types.Course
  if err := transaction.WithContext(ctx).
    Where("teacher_id = ?", teacherID).
    Order("created_at DESC").
    Find(&courses).Error; err != nil {
    return nil, err
  }
  return courses, nil
}

func (r *courseRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Course{}).
    Where("id = ?", id).
    Updates(fields).Error; err != nil {
    r.log.Error("failed to update course", "course_id", id, "error", err)
    return err
  }
  return nil
}

func (r *courseRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Course{}).Error
}
