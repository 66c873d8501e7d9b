package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Category groups recipes for a single owner.
type Category struct {
	bun.BaseModel `bun:"table:categories"`

	ID           int64     `bun:"category_id,pk,autoincrement" json:"category_id"`
	Name         string    `bun:"category_name,notnull" json:"category_name"`
	Description  string    `bun:"description,notnull" json:"description"`
	CreatedBy    int64     `bun:"created_by,notnull" json:"created_by"`
	DateCreated  time.Time `bun:"date_created,notnull" json:"date_created"`
	DateModified time.Time `bun:"date_modified,notnull" json:"date_modified"`

	Recipes []*Recipe `bun:"rel:has-many,join:category_id=category_id" json:"recipes"`
}

// PrepareForAPI makes sure the nested recipes encode as a list, not null.
func (c *Category) PrepareForAPI() {
	if c.Recipes == nil {
		c.Recipes = []*Recipe{}
	}
}
