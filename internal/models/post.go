package models

import "time"

// Post is a blog entry owned by exactly one user.
type Post struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	Content   string    `json:"content" gorm:"type:text"`
	ImageURL  string    `json:"imageUrl" gorm:"type:varchar(512)"`
	CreatorID string    `json:"creatorId" gorm:"index;type:varchar(36)"`
	Creator   *User     `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostPage is one page of the newest-first post listing.
type PostPage struct {
	Posts     []Post `json:"posts"`
	TotalPost int64  `json:"totalPost"`
}
