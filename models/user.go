package models

import "github.com/uptrace/bun"

// User is an account holder. Password holds the bcrypt hash, never plaintext.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int     `bun:"id,pk,autoincrement" json:"id"`
	Username string  `bun:"username,notnull,unique" json:"username"`
	Password string  `bun:"password,notnull" json:"-"`
	ImageURL *string `bun:"image_url" json:"image_url"`
	Bio      *string `bun:"bio" json:"bio"`

	Recipes []*Recipe `bun:"rel:has-many,join:id=user_id" json:"-"`
}
