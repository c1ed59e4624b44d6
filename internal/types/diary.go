package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Diary is one journal entry. Emotion holds the analyzed label scores and
// RecommendContent the recommendation snapshot, both as JSON documents so
// the analysis pipeline can evolve without schema migrations. DiaryDate is
// an ISO date string (YYYY-MM-DD), validated at the service layer.
type Diary struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"index;not null;uniqueIndex:idx_diary_user_date" json:"user_id"`
	User             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title            string         `gorm:"not null;column:title" json:"title"`
	Content          string         `gorm:"not null;column:content" json:"content"`
	Emotion          datatypes.JSON `gorm:"column:emotion" json:"emotion,omitempty"`
	RecommendContent datatypes.JSON `gorm:"column:recommend_content" json:"recommend_content,omitempty"`
	DiaryDate        string         `gorm:"size:10;not null;uniqueIndex:idx_diary_user_date;column:diary_date" json:"diary_date"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Diary) TableName() string {
	return "diary"
}
