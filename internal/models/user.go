package models

import "time"

// DefaultStatus is the status given to every new user.
const DefaultStatus = "I am new!"

// User represents an author on the blog.
type User struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Status    string    `json:"status" gorm:"type:varchar(255)"`
	PostIDs   []string  `json:"posts" gorm:"column:posts;serializer:json"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPost reports whether id is in the user's post list.
func (u *User) HasPost(id string) bool {
	for _, p := range u.PostIDs {
		if p == id {
			return true
		}
	}
	return false
}

// AddPost appends id unless it is already listed.
func (u *User) AddPost(id string) {
	if !u.HasPost(id) {
		u.PostIDs = append(u.PostIDs, id)
	}
}

// RemovePost drops every occurrence of id.
func (u *User) RemovePost(id string) {
	kept := make([]string, 0, len(u.PostIDs))
	for _, p := range u.PostIDs {
		if p != id {
			kept = append(kept, p)
		}
	}
	u.PostIDs = kept
}
