package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

type EggType string

const (
	EggTypeMusical   EggType = "MUSICAL"
	EggTypeSideQuest EggType = "SIDE_QUEST"
	EggTypeMainQuest EggType = "MAIN_QUEST"
	EggTypeBuildable EggType = "BUILDABLE"
)

const (
	PlayerCountSolo  = "SOLO"
	PlayerCountDuo   = "DUO"
	PlayerCountSquad = "SQUAD"
)

// EasterEgg is one hidden-content entry of a single map. The JSON shape is the
// authoring format of the catalogue; the bun shape is the easter_eggs table.
type EasterEgg struct {
	bun.BaseModel `bun:"easter_eggs,alias:ee"`

	EggID                  int64       `bun:",pk,autoincrement" json:"-"`
	GameShortName          string      `bun:",notnull" json:"gameShortName" validate:"required,gameshortname"`
	MapSlug                string      `bun:",notnull" json:"mapSlug" validate:"required,slug"`
	Name                   string      `bun:",notnull" json:"name" validate:"required"`
	Slug                   string      `bun:",notnull" json:"slug" validate:"required,slug"`
	Type                   EggType     `bun:",notnull" json:"type" validate:"required,oneof=MUSICAL SIDE_QUEST MAIN_QUEST BUILDABLE"`
	XPReward               int         `bun:"xp_reward,notnull" json:"xpReward" validate:"gte=0"`
	Description            string      `bun:",notnull" json:"description"`
	RewardsDescription     null.String `bun:"rewards_description,type:text" json:"rewardsDescription"`
	VideoEmbedURL          null.String `bun:"video_embed_url,type:text" json:"videoEmbedUrl" validate:"omitempty,url"`
	PlayerCountRequirement null.String `bun:"player_count_requirement,type:text" json:"playerCountRequirement" validate:"omitempty,oneof=SOLO DUO SQUAD"`
	VariantTag             null.String `bun:"variant_tag,type:text" json:"variantTag"`
	CategoryTag            null.String `bun:"category_tag,type:text" json:"categoryTag"`
	Steps                  []*Step     `bun:"rel:has-many,join:egg_id=egg_id" json:"steps" validate:"required,min=1,dive,required"`

	// ContentHash is the xxh3 digest of the canonical JSON form of the record.
	ContentHash string    `bun:",nullzero" json:"-"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"-"`
	UpdatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"-"`
}

func (e *EasterEgg) Key() Key {
	return Key{
		GameShortName: e.GameShortName,
		MapSlug:       e.MapSlug,
		Slug:          e.Slug,
	}
}

// MapKey is the partition the egg's buildable references resolve in.
func (e *EasterEgg) MapKey() MapKey {
	return MapKey{
		GameShortName: e.GameShortName,
		MapSlug:       e.MapSlug,
	}
}
