package models

// Post is a text entry addressed by its slug.
type Post struct {
	ID      int64  `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	Content string `json:"content" db:"content"`
	Slug    string `json:"slug" db:"slug"`
	OwnerID int64  `json:"owner_id" db:"owner_id"`

	// OwnerUsername is filled by list queries only.
	OwnerUsername string `json:"owner_username,omitempty" db:"owner_username"`
}

// IsOwnedBy reports whether the post belongs to the given user.
func (p *Post) IsOwnedBy(u *User) bool {
	return p != nil && u != nil && p.OwnerID == u.ID
}
