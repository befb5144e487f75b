package models

// User is an identity record. Emails are normalized to lowercase before every
// write and lookup; uniqueness is enforced by the storage layer.
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:text;not null"`

	PDFs       []PDF       `json:"-" gorm:"foreignKey:UserID"`
	Highlights []Highlight `json:"-" gorm:"foreignKey:UserID"`
}
