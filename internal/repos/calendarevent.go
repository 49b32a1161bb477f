package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/types"
)

type CalendarEventRepo interface {
  CreateBatch(ctx context.Context, tx *gorm.DB, events []types.CalendarEvent) error
  ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.CalendarEvent, error)
  DeleteByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error
}

type calendarEventRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCalendarEventRepo(db *gorm.DB, baseLog *logger.Logger) CalendarEventRepo {
  return &calendarEventRepo{db: db, log: baseLog.With("repo", "CalendarEventRepo")}
}

func (r *calendarEventRepo) CreateBatch(ctx context.Context, tx *gorm.DB, events []types.CalendarEvent) error {
  if len(events) == 0 {
    return nil
  }
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
    r.log.Error("failed to create calendar events", "count", len(events), "error", err)
    return err
  }
  return nil
}

func (r *calendarEventRepo) ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]types.CalendarEvent, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var events []types.CalendarEvent
  if err := transaction.WithContext(ctx).
    Where("plan_id = ?", planID).
    Order("start_date_time ASC").
    Find(&events).Error; err != nil {
    return nil, err
  }
  return events, nil
}

func (r *calendarEventRepo) DeleteByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Where("plan_id = ?", planID).Delete(&types.CalendarEvent{}).Error
}
