package domain

// Code is a short-lived verification code mailed to a user for account
// activation and password recovery.
type Code struct {
	ID    uint   `gorm:"primaryKey"`
	Code  string `gorm:"type:varchar(6);not null"`
	Email string `gorm:"type:varchar(191);index;not null"`
}
