package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/logger"
  "github.com/courseloom/backend/internal/types"
)

type SessionResourceRepo interface {
  CreateBatch(ctx context.Context, tx *gorm.DB, resources []types.SessionResource) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SessionResource, error)
  ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, includeHidden bool) ([]types.SessionResource, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
  DeleteBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
  DeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type sessionResourceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSessionResourceRepo(db *gorm.DB, baseLog *logger.Logger) SessionResourceRepo {
  return &sessionResourceRepo{db: db, log: baseLog.With("repo", "SessionResourceRepo")}
}

func (r *sessionResourceRepo) CreateBatch(ctx context.Context, tx *gorm.DB, resources []types.SessionResource) error {
  if len(resources) == 0 {
    return nil
  }
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(&resources).Error; err != nil {
    r.log.Error("failed to create session resources", "count", len(resources), "error", err)
    return err
  }
  return nil
}

func (r *sessionResourceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SessionResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var resource types.SessionResource
  if err := transaction.WithContext(ctx).Where("id = ?", id).First(&resource).Error; err != nil {
    return nil, err
  }
  return &resource, nil
}

func (r *sessionResourceRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, includeHidden bool) ([]types.SessionResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  query := transaction.WithContext(ctx).Where("session_id = ?", sessionID)
  if !includeHidden {
    query = query.Where("is_hidden = ?", false)
  }
  var resources []types.SessionResource
  if err := query.Order("relevance_score DESC").Find(&resources).Error; err != nil {
    return nil, err
  }
  return resources, nil
}

func (r *sessionResourceRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Model(&types.SessionResource{}).
    Where("id = ?", id).
    Updates(fields).Error; err != nil {
    r.log.Error("failed to update session resource", "resource_id", id, "error", err)
    return err
  }
  return nil
}

func (r *sessionResourceRepo) DeleteBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&types.SessionResource{}).Error
}

func (r *sessionResourceRepo) DeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
  if len(sessionIDs) == 0 {
    return nil
  }
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Where("session_id IN ?", sessionIDs).Delete(&types.SessionResource{}).Error
}
