package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/courseloom/backend/internal/curriculum"
)

type SessionStatus string

const (
	SessionStatusGenerated     SessionStatus = "GENERATED"
	SessionStatusReviewed      SessionStatus = "REVIEWED"
	SessionStatusScheduled     SessionStatus = "SCHEDULED"
	SessionStatusTaught        SessionStatus = "TAUGHT"
	SessionStatusNeedsRevision SessionStatus = "NEEDS_REVISION"
)

// Session is one teaching unit of a plan, keyed by (plan, week, session).
// Unlike plans, regeneration overwrites the row in place.
type Session struct {
	ID                uuid.UUID                                       `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID            uuid.UUID                                       `gorm:"column:plan_id;type:uuid;not null;index:idx_session_plan_week_num,unique,priority:1" json:"plan_id"`
	WeekNumber        int                                             `gorm:"column:week_number;not null;index:idx_session_plan_week_num,unique,priority:2" json:"week_number"`
	SessionNumber     int                                             `gorm:"column:session_number;not null;index:idx_session_plan_week_num,unique,priority:3" json:"session_number"`
	Blueprint         datatypes.JSONType[curriculum.SessionBlueprint] `gorm:"column:blueprint" json:"blueprint"`
	Toolkit           datatypes.JSON                                  `gorm:"column:toolkit" json:"toolkit,omitempty"`
	Status            SessionStatus                                   `gorm:"column:status;not null;default:GENERATED" json:"status"`
	TeacherOverrides  datatypes.JSON                                  `gorm:"column:teacher_overrides" json:"teacher_overrides,omitempty"`
	GeneratedAt       time.Time                                       `gorm:"column:generated_at;not null" json:"generated_at"`
	TaughtAt          *time.Time                                      `gorm:"column:taught_at" json:"taught_at,omitempty"`
	StudentFeedback   datatypes.JSON                                  `gorm:"column:student_feedback" json:"student_feedback,omitempty"`
	CheckpointResults datatypes.JSON                                  `gorm:"column:checkpoint_results" json:"checkpoint_results,omitempty"`
	TeacherNotes      string                                          `gorm:"column:teacher_notes" json:"teacher_notes,omitempty"`
	CreatedAt         time.Time                                       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time                                       `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "curriculum_session" }
