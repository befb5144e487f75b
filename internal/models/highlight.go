package models

import "github.com/google/uuid"

// BoundingBox is the selection's viewport rectangle at creation time. It is
// persisted verbatim, not normalized to PDF page coordinates or zoom level.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position holds the character offsets of the browser selection range.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Highlight is one annotation anchored to a document page. PDFUuid references
// the parent document by its public identifier, not by row id, so the storage
// layer enforces no foreign key; ownership is checked at the API layer.
type Highlight struct {
	BaseModel
	PDFUuid         string      `json:"pdfUuid" gorm:"type:varchar(36);not null;index"`
	UserID          uuid.UUID   `json:"userId" gorm:"type:uuid;not null;index"`
	PageNumber      int         `json:"pageNumber" gorm:"not null"`
	HighlightedText string      `json:"highlightedText" gorm:"type:text;not null"`
	BoundingBox     BoundingBox `json:"boundingBox" gorm:"embedded;embeddedPrefix:box_"`
	Position        Position    `json:"position" gorm:"embedded;embeddedPrefix:pos_"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (Highlight) TableName() string {
	return "highlights"
}
