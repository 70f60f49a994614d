package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document kinds stored in the library. The canonical API shape for a
// document is resources.Resource; this row is the raw stored record.
const (
	DocumentKindBook  = "book"
	DocumentKindSlide = "slide"
	DocumentKindVideo = "video"
)

type Document struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind    string    `gorm:"column:kind;not null;index" json:"kind"`
	Title   string    `gorm:"column:title;not null;index" json:"title"`
	Subject string    `gorm:"column:subject;not null;index" json:"subject"`

	// Unit is stored as text but historically some sources wrote bare
	// integers; queries must tolerate both forms.
	Unit string `gorm:"column:unit;index" json:"unit,omitempty"`

	Author      string         `gorm:"column:author" json:"author,omitempty"`
	Source      string         `gorm:"column:source" json:"source,omitempty"`
	URL         string         `gorm:"column:url" json:"url,omitempty"`
	ISBN        string         `gorm:"column:isbn" json:"isbn,omitempty"`
	KeyConcepts datatypes.JSON `gorm:"column:key_concepts;type:jsonb" json:"key_concepts,omitempty"`
	Snippet     string         `gorm:"column:snippet" json:"snippet,omitempty"`

	// Video-kind fields.
	ChannelName     string `gorm:"column:channel_name" json:"channel_name,omitempty"`
	DurationSeconds int    `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	IsPlaylist      bool   `gorm:"column:is_playlist" json:"is_playlist,omitempty"`
	ViewCount       int64  `gorm:"column:view_count" json:"view_count,omitempty"`

	// Book-kind fields.
	PageCount       int `gorm:"column:page_count" json:"page_count,omitempty"`
	PublicationYear int `gorm:"column:publication_year" json:"publication_year,omitempty"`

	PedagogicalScore float64 `gorm:"column:pedagogical_score" json:"pedagogical_score,omitempty"`
	PopularityScore  float64 `gorm:"column:popularity_score" json:"popularity_score,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "document" }
