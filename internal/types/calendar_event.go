package types

import (
	"time"

	"github.com/google/uuid"
)

type CalendarEventType string

const (
	EventTypeSession       CalendarEventType = "SESSION"
	EventTypeQuiz          CalendarEventType = "QUIZ"
	EventTypeAssignmentDue CalendarEventType = "ASSIGNMENT_DUE"
	EventTypeMidterm       CalendarEventType = "MIDTERM"
	EventTypeFinalExam     CalendarEventType = "FINAL_EXAM"
	EventTypeProjectDue    CalendarEventType = "PROJECT_DUE"
	EventTypeBuffer        CalendarEventType = "BUFFER"
	EventTypeReviewSession CalendarEventType = "REVIEW_SESSION"
)

// CalendarEvent is a dated occurrence derived from a plan. The full event set
// for a plan is replaced atomically on every sync.
type CalendarEvent struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID          uuid.UUID         `gorm:"column:plan_id;type:uuid;not null;index" json:"plan_id"`
	SessionID       *uuid.UUID        `gorm:"column:session_id;type:uuid" json:"session_id,omitempty"`
	Title           string            `gorm:"column:title;not null" json:"title"`
	Description     string            `gorm:"column:description" json:"description,omitempty"`
	EventType       CalendarEventType `gorm:"column:event_type;not null" json:"event_type"`
	StartDateTime   time.Time         `gorm:"column:start_date_time;not null" json:"start_date_time"`
	EndDateTime     time.Time         `gorm:"column:end_date_time;not null" json:"end_date_time"`
	Synced          bool              `gorm:"column:synced;not null;default:false" json:"synced"`
	ExternalEventID string            `gorm:"column:external_event_id" json:"external_event_id,omitempty"`
	WeekNumber      int               `gorm:"column:week_number" json:"week_number,omitempty"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

func (CalendarEvent) TableName() string { return "curriculum_calendar_event" }
