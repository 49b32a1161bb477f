package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/courseloom/backend/internal/curriculum"
)

type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "DRAFT"
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusArchived  PlanStatus = "ARCHIVED"
	PlanStatusCompleted PlanStatus = "COMPLETED"
)

// Plan is one generated, versioned curriculum for a course. Versions are
// append-only: regeneration creates version max+1 and never rewrites an
// existing row's macroplan.
type Plan struct {
	ID               uuid.UUID                                  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID         uuid.UUID                                  `gorm:"type:uuid;not null;index:idx_plan_course_version,unique,priority:1" json:"course_id"`
	Version          int                                        `gorm:"column:version;not null;index:idx_plan_course_version,unique,priority:2" json:"version"`
	Status           PlanStatus                                 `gorm:"column:status;not null;default:DRAFT" json:"status"`
	Macroplan        datatypes.JSONType[curriculum.MacroPlan]   `gorm:"column:macroplan" json:"macroplan"`
	TeacherOverrides datatypes.JSON                             `gorm:"column:teacher_overrides" json:"teacher_overrides,omitempty"`
	GeneratedAt      time.Time                                  `gorm:"column:generated_at;not null" json:"generated_at"`
	CreatedAt        time.Time                                  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time                                  `gorm:"not null" json:"updated_at"`
}

func (Plan) TableName() string { return "curriculum_plan" }
