package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidCharacters is the closed set of selectable companion characters.
var ValidCharacters = []string{"dog", "cat", "bear", "rabbit", "racoon", "hamster"}

func IsValidCharacter(c string) bool {
	for _, v := range ValidCharacters {
		if v == c {
			return true
		}
	}
	return false
}

type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username   string         `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Password   string         `gorm:"not null;column:password" json:"-"`
	PersonName string         `gorm:"not null;column:person_name" json:"person_name"`
	NickName   string         `gorm:"uniqueIndex;not null;column:nick_name" json:"nick_name"`
	Email      string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Phone      string         `gorm:"not null;column:phone" json:"phone"`
	Character  string         `gorm:"column:character" json:"character"`
	Role       string         `gorm:"not null;default:member;column:role" json:"role"`
	Emotion    datatypes.JSON `gorm:"column:emotion" json:"emotion,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
