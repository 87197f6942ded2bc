package model

import (
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

type Step struct {
	bun.BaseModel `bun:"easter_egg_steps,alias:ees"`

	StepID                 int64       `bun:",pk,autoincrement" json:"-"`
	EggID                  int64       `bun:",notnull" json:"-"`
	Order                  int         `bun:"step_order,notnull" json:"order" validate:"gte=1"`
	Label                  string      `bun:",notnull" json:"label" validate:"required"`
	ImageURL               null.String `bun:"image_url,type:text" json:"imageUrl"`
	BuildableReferenceSlug null.String `bun:"buildable_reference_slug,type:text" json:"buildableReferenceSlug" validate:"omitempty,slug"`

	// BuildableEggID is filled by the reference resolution pass after every
	// record of a load run has been written.
	BuildableEggID null.Int `bun:"buildable_egg_id,type:bigint" json:"-"`
}
