package models

import "database/sql"

// DefaultProfileImage is served when a user has not uploaded a picture.
const DefaultProfileImage = "/static/profile_pics/default.jpg"

// UserDB represents a user row in the database.
type UserDB struct {
	ID           int64          `db:"id"`            // Primary key
	Username     string         `db:"username"`      // Unique (case-insensitive)
	Email        string         `db:"email"`         // Unique (case-insensitive), stored lowercased
	PasswordHash string         `db:"password_hash"` // argon2id encoded, never exposed
	ImageFile    sql.NullString `db:"image_file"`    // Profile picture filename, nullable
}

// ImagePath returns the public URL path of the user's profile picture.
// Only the filename is stored; the path keeps the database decoupled from
// the filesystem layout.
func (u *UserDB) ImagePath() string {
	if u.ImageFile.Valid && u.ImageFile.String != "" {
		return "/media/profile_pics/" + u.ImageFile.String
	}
	return DefaultProfileImage
}

// UserPublic is the user view exposed on public endpoints.
type UserPublic struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	ImageFile *string `json:"image_file"`
	ImagePath string  `json:"image_path"`
}

// UserPrivate is the user view returned to the account owner; it adds the
// email address to the public view.
type UserPrivate struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	ImageFile *string `json:"image_file"`
	ImagePath string  `json:"image_path"`
}

// PublicView converts a database row to the public representation.
func (u *UserDB) PublicView() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Username:  u.Username,
		ImageFile: nullableString(u.ImageFile),
		ImagePath: u.ImagePath(),
	}
}

// PrivateView converts a database row to the owner-facing representation.
func (u *UserDB) PrivateView() UserPrivate {
	return UserPrivate{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		ImageFile: nullableString(u.ImageFile),
		ImagePath: u.ImagePath(),
	}
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
