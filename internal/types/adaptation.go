package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AdaptationTrigger string

const (
	TriggerLowQuizScores   AdaptationTrigger = "LOW_QUIZ_SCORES"
	TriggerStudentFeedback AdaptationTrigger = "STUDENT_FEEDBACK"
	TriggerPacingIssue     AdaptationTrigger = "PACING_ISSUE"
	TriggerTeacherRequest  AdaptationTrigger = "TEACHER_REQUEST"
	TriggerAttendanceDrop  AdaptationTrigger = "ATTENDANCE_DROP"
)

type AdaptationStatus string

const (
	AdaptationPending           AdaptationStatus = "PENDING"
	AdaptationAccepted          AdaptationStatus = "ACCEPTED"
	AdaptationRejected          AdaptationStatus = "REJECTED"
	AdaptationPartiallyAccepted AdaptationStatus = "PARTIALLY_ACCEPTED"
)

// Adaptation records a proposed mid-course plan change. Rows are never
// deleted; a response makes the status terminal.
type Adaptation struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID      uuid.UUID         `gorm:"column:plan_id;type:uuid;not null;index" json:"plan_id"`
	TriggerType AdaptationTrigger `gorm:"column:trigger_type;not null" json:"trigger_type"`
	TriggerData datatypes.JSON    `gorm:"column:trigger_data" json:"trigger_data"`
	Suggestion  datatypes.JSON    `gorm:"column:suggestion" json:"suggestion"`
	Reasoning   string            `gorm:"column:reasoning" json:"reasoning"`
	Status      AdaptationStatus  `gorm:"column:status;not null;default:PENDING" json:"status"`
	RespondedAt *time.Time        `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreatedAt   time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null" json:"updated_at"`
}

func (Adaptation) TableName() string { return "curriculum_adaptation" }
