package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Recipe belongs to exactly one category and one owner.
type Recipe struct {
	bun.BaseModel `bun:"table:recipes"`

	ID           int64     `bun:"recipe_id,pk,autoincrement" json:"recipe_id"`
	Name         string    `bun:"recipe_name,notnull" json:"recipe_name"`
	Ingredients  string    `bun:"ingredients,notnull" json:"ingredients"`
	CategoryID   int64     `bun:"category_id,notnull" json:"category_id"`
	CreatedBy    int64     `bun:"created_by,notnull" json:"created_by"`
	DateCreated  time.Time `bun:"date_created,notnull" json:"date_created"`
	DateModified time.Time `bun:"date_modified,notnull" json:"date_modified"`
}
