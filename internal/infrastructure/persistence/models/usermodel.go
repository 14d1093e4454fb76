package models

// UserContactModel is a read-only projection of the externally managed
// users table. Only the contact fields needed for checkout and
// reminder emails are mapped; this service never writes to it.
type UserContactModel struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"size:255"`
	FirstName string `gorm:"size:100"`
}

func (UserContactModel) TableName() string {
	return "users"
}
