package models

import (
	"gorm.io/gorm"
)

// Genre codes stored on a Parfum record.
const (
	GenreFemme     = "F"
	GenreHomme     = "H"
	GenreUniversel = "U"
)

// Parfum is a catalog product. Reference is the business key assigned by the
// source spreadsheets and shared with the variant price list.
type Parfum struct {
	gorm.Model
	Reference        string    `gorm:"uniqueIndex;not null" json:"reference"`
	Slug             string    `gorm:"uniqueIndex;not null" json:"slug"`
	Inspiration      string    `gorm:"not null" json:"inspiration"`
	Genre            string    `gorm:"type:varchar(1);default:U" json:"genre"`
	FamilleID        uint      `gorm:"not null" json:"famille_id"`
	Famille          *Famille  `gorm:"foreignKey:FamilleID" json:"famille,omitempty"`
	NotesTete        []string  `gorm:"serializer:json" json:"notes_tete"`
	NotesCoeur       []string  `gorm:"serializer:json" json:"notes_coeur"`
	NotesFond        []string  `gorm:"serializer:json" json:"notes_fond"`
	Variants         []Variant `gorm:"foreignKey:ParfumID" json:"variants"`
	Price            float64   `json:"price"`
	Intensite        string    `json:"intensite"`
	Description      string    `gorm:"type:text" json:"description"`
	APropos          string    `gorm:"type:text" json:"a_propos"`
	Conseils         string    `gorm:"type:text" json:"conseils"`
	ImagePlaceholder string    `json:"image_placeholder"`
}

// Variant is a purchasable size for a Parfum, priced and referenced
// independently of the parent product.
type Variant struct {
	gorm.Model
	ParfumID uint    `gorm:"index;not null" json:"parfum_id"`
	Volume   int     `gorm:"not null" json:"volume"`
	Price    float64 `gorm:"not null" json:"price"`
	Ref      string  `json:"ref"`
}

// DefaultVariant picks the variant whose volume matches the preferred display
// volume, falling back to the first available variant. Returns nil when the
// parfum has no variants.
func (p *Parfum) DefaultVariant(preferredVolume int) *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].Volume == preferredVolume {
			return &p.Variants[i]
		}
	}
	return &p.Variants[0]
}

// DisplayPrice resolves the price shown on catalog pages: the default
// variant's price when variants exist, otherwise the legacy price column.
func (p *Parfum) DisplayPrice(preferredVolume int) float64 {
	if variant := p.DefaultVariant(preferredVolume); variant != nil {
		return variant.Price
	}
	return p.Price
}
