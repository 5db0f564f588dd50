package models

import (
	"gorm.io/gorm"
)

// Famille is an olfactory family ("famille olfactive"), the scent category
// every Parfum must reference.
type Famille struct {
	gorm.Model
	Nom              string `gorm:"uniqueIndex;not null" json:"nom"`
	Slug             string `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string `gorm:"type:text" json:"description"`
	Genre            string `gorm:"type:varchar(1);default:U" json:"genre"`
	Saison           string `json:"saison"`
	Intensite        string `json:"intensite"`
	ImagePlaceholder string `json:"image_placeholder"`
}
