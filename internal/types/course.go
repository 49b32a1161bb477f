package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SessionType string

const (
	SessionTypeLecture  SessionType = "LECTURE"
	SessionTypeLab      SessionType = "LAB"
	SessionTypeTutorial SessionType = "TUTORIAL"
	SessionTypeSeminar  SessionType = "SEMINAR"
	SessionTypeHybrid   SessionType = "HYBRID"
	SessionTypeWorkshop SessionType = "WORKSHOP"
)

type ClassVibe string

const (
	ClassVibeHighEngagement ClassVibe = "HIGH_ENGAGEMENT"
	ClassVibeMixed          ClassVibe = "MIXED"
	ClassVibeLowEngagement  ClassVibe = "LOW_ENGAGEMENT"
	ClassVibeAdvanced       ClassVibe = "ADVANCED"
	ClassVibeStruggling     ClassVibe = "STRUGGLING"
)

type TeacherChallenge string

const (
	ChallengeStudentsDisengaged   TeacherChallenge = "STUDENTS_DISENGAGED"
	ChallengeTooMuchContent       TeacherChallenge = "TOO_MUCH_CONTENT"
	ChallengeWeakFundamentals     TeacherChallenge = "WEAK_FUNDAMENTALS"
	ChallengeMixedSkillLevels     TeacherChallenge = "MIXED_SKILL_LEVELS"
	ChallengeTimeManagement       TeacherChallenge = "TIME_MANAGEMENT"
	ChallengeAssessmentAlignment  TeacherChallenge = "ASSESSMENT_ALIGNMENT"
	ChallengePracticalApplication TeacherChallenge = "PRACTICAL_APPLICATION"
)

type Course struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"teacher_id"`
	CourseName       string           `gorm:"column:course_name;not null" json:"course_name"`
	CourseCode       string           `gorm:"column:course_code" json:"course_code,omitempty"`
	Subject          string           `gorm:"column:subject;not null" json:"subject"`
	Department       string           `gorm:"column:department" json:"department,omitempty"`
	TotalWeeks       int              `gorm:"column:total_weeks;not null" json:"total_weeks"`
	HoursPerWeek     float64          `gorm:"column:hours_per_week;not null" json:"hours_per_week"`
	SessionDuration  int              `gorm:"column:session_duration;not null" json:"session_duration"`
	SessionsPerWeek  int              `gorm:"column:sessions_per_week;not null" json:"sessions_per_week"`
	SessionType      SessionType      `gorm:"column:session_type;not null;default:LECTURE" json:"session_type"`
	ClassSize        int              `gorm:"column:class_size;not null" json:"class_size"`
	ClassVibe        ClassVibe        `gorm:"column:class_vibe;not null;default:MIXED" json:"class_vibe"`
	StudentLevel     string           `gorm:"column:student_level;not null;default:Undergraduate" json:"student_level"`
	Outcomes         datatypes.JSON   `gorm:"column:outcomes;type:jsonb" json:"outcomes"`
	PrimaryChallenge TeacherChallenge `gorm:"column:primary_challenge" json:"primary_challenge,omitempty"`
	AdditionalNotes  string           `gorm:"column:additional_notes" json:"additional_notes,omitempty"`
	CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "curriculum_course" }
