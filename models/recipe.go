package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

// MinInstructionsLen is the minimum number of characters accepted for
// recipe instructions.
const MinInstructionsLen = 50

// Recipe belongs to exactly one user; ownership never changes.
type Recipe struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID                int    `bun:"id,pk,autoincrement" json:"id"`
	Title             string `bun:"title,notnull" json:"title"`
	Instructions      string `bun:"instructions,notnull" json:"instructions"`
	MinutesToComplete int    `bun:"minutes_to_complete,notnull" json:"minutes_to_complete"`
	UserID            int    `bun:"user_id,notnull" json:"-"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}

// Validate enforces content rules that sit below the per-field request
// checks. The returned message is safe to show to the client as-is.
func (r *Recipe) Validate() error {
	if len(r.Instructions) < MinInstructionsLen {
		return fmt.Errorf("Instructions must be at least %d characters long.", MinInstructionsLen)
	}
	return nil
}
