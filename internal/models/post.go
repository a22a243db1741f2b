package models

import "time"

// PostDB represents a post row in the database.
type PostDB struct {
	ID         int64     `db:"id"`         // Primary key
	Title      string    `db:"title"`      // Post title
	Content    string    `db:"content"`    // Post body
	UserID     int64     `db:"user_id"`    // Author, FK to users (cascade delete)
	DatePosted time.Time `db:"date_posted"`
}

// PostWithAuthor is a post row joined with its author.
type PostWithAuthor struct {
	PostDB
	Author UserDB `db:"author"`
}

// PostResponse is the post view returned by the API, author included.
type PostResponse struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	UserID     int64      `json:"user_id"`
	DatePosted time.Time  `json:"date_posted"`
	Author     UserPublic `json:"author"`
}

// View converts a joined row to the API representation.
func (p *PostWithAuthor) View() PostResponse {
	return PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		UserID:     p.UserID,
		DatePosted: p.DatePosted,
		Author:     p.Author.PublicView(),
	}
}
