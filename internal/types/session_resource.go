package types

import (
	"time"

	"github.com/google/uuid"
)

type ResourceType string

const (
	ResourceYouTubeVideo    ResourceType = "YOUTUBE_VIDEO"
	ResourceArticle         ResourceType = "ARTICLE"
	ResourcePDF             ResourceType = "PDF"
	ResourcePresentation    ResourceType = "PRESENTATION"
	ResourceInteractiveTool ResourceType = "INTERACTIVE_TOOL"
	ResourceWebsite         ResourceType = "WEBSITE"
)

// SessionResource is one ranked external teaching resource attached to a
// session. The whole set for a session is replaced on regeneration.
type SessionResource struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID       uuid.UUID    `gorm:"column:session_id;type:uuid;not null;index" json:"session_id"`
	ResourceType    ResourceType `gorm:"column:resource_type;not null" json:"resource_type"`
	Title           string       `gorm:"column:title;not null" json:"title"`
	Description     string       `gorm:"column:description" json:"description,omitempty"`
	URL             string       `gorm:"column:url;not null" json:"url"`
	ThumbnailURL    string       `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	SourceName      string       `gorm:"column:source_name" json:"source_name,omitempty"`
	Duration        string       `gorm:"column:duration" json:"duration,omitempty"`
	RelevanceScore  float64      `gorm:"column:relevance_score" json:"relevance_score"`
	AIReasoning     string       `gorm:"column:ai_reasoning" json:"ai_reasoning,omitempty"`
	SectionType     string       `gorm:"column:section_type" json:"section_type,omitempty"`
	IsFree          bool         `gorm:"column:is_free;not null;default:true" json:"is_free"`
	TeacherRating   *int         `gorm:"column:teacher_rating" json:"teacher_rating,omitempty"`
	TeacherNotes    string       `gorm:"column:teacher_notes" json:"teacher_notes,omitempty"`
	IsHidden        bool         `gorm:"column:is_hidden;not null;default:false" json:"is_hidden"`
	SearchQueryUsed string       `gorm:"column:search_query_used" json:"search_query_used,omitempty"`
	FetchedAt       time.Time    `gorm:"column:fetched_at;not null" json:"fetched_at"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null" json:"updated_at"`
}

func (SessionResource) TableName() string { return "curriculum_session_resource" }
