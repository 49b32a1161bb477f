package services

import (
  "context"
  "errors"
  "net/http"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/courseloom/backend/internal/apierr"
  "github.com/courseloom/backend/internal/repos"
  "github.com/courseloom/backend/internal/requestdata"
  "github.com/courseloom/backend/internal/types"
)

// teacherFrom extracts the authenticated teacher from the request context.
func teacherFrom(ctx context.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TeacherID == uuid.Nil {
    return uuid.Nil, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("no authenticated teacher"))
  }
  return rd.TeacherID, nil
}

// ownedCourse loads a course for the invoking teacher. A course owned by
// another teacher is indistinguishable from a missing one.
func ownedCourse(ctx context.Context, tx *gorm.DB, courses repos.CourseRepo, id uuid.UUID) (*types.Course, error) {
  teacherID, err := teacherFrom(ctx)
  if err != nil {
    return nil, err
  }
  course, err := courses.GetByID(ctx, tx, id)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("course %s not found", id)
    }
    return nil, err
  }
  if course.TeacherID != teacherID {
    return nil, apierr.NotFound("course %s not found", id)
  }
  return course, nil
}

// ownedPlan resolves a plan through its course to the invoking teacher.
func ownedPlan(ctx context.Context, tx *gorm.DB, plans repos.PlanRepo, courses repos.CourseRepo, id uuid.UUID) (*types.Plan, *types.Course, error) {
  plan, err := plans.GetByID(ctx, tx, id)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil, apierr.NotFound("plan %s not found", id)
    }
    return nil, nil, err
  }
  course, err := ownedCourse(ctx, tx, courses, plan.CourseID)
  if err != nil {
    if apierr.CodeOf(err) == apierr.CodeNotFound {
      return nil, nil, apierr.NotFound("plan %s not found", id)
    }
    return nil, nil, err
  }
  return plan, course, nil
}

// ownedSession resolves a session through its plan and course to the
// invoking teacher.
func ownedSession(ctx context.Context, tx *gorm.DB, sessions repos.SessionRepo, plans repos.PlanRepo, courses repos.CourseRepo, id uuid.UUID) (*types.Session, *types.Plan, *types.Course, error) {
  session, err := sessions.GetByID(ctx, tx, id)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil, nil, apierr.NotFound("session %s not found", id)
    }
    return nil, nil, nil, err
  }
  plan, course, err := ownedPlan(ctx, tx, plans, courses, session.PlanID)
  if err != nil {
    if apierr.CodeOf(err) == apierr.CodeNotFound {
      return nil, nil, nil, apierr.NotFound("session %s not found", id)
    }
    return nil, nil, nil, err
  }
  return session, plan, course, nil
}
