package models

import "github.com/google/uuid"

// PDF is one uploaded document. UUID is the generated public identifier;
// Filename is the stored name derived from it, OriginalName the client's name.
// Both UUID and UserID are immutable after creation.
type PDF struct {
	BaseModel
	UUID         string    `json:"uuid" gorm:"type:varchar(36);uniqueIndex;not null"`
	Filename     string    `json:"filename" gorm:"type:varchar(255);not null"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(255);not null"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	FilePath     string    `json:"filePath" gorm:"type:text;not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (PDF) TableName() string {
	return "pdfs"
}
