package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Default marketing copy applied when a spreadsheet cell is blank.
const (
	defaultDescription = "Une création de la maison, fidèle aux plus belles matières premières."
	defaultAPropos     = "Chaque parfum est élaboré et mis en flacon dans nos ateliers."
	defaultConseils    = "Vaporiser sur la peau ou les vêtements, à distance de 15 cm."
)

var (
	validate      = validator.New(validator.WithRequiredStructEnabled())
	volumePattern = regexp.MustCompile(`\d+`)
	pricePattern  = regexp.MustCompile(`[-+]?\d+(?:[.,]\d+)?`)
)

// ProductRow is the typed form of one catalog spreadsheet row. All downstream
// stages work from this struct; nothing past the parse step indexes into raw
// header-keyed maps.
type ProductRow struct {
	Reference   string `validate:"required"`
	Inspiration string `validate:"required"`
	Genre       string
	Famille     string `validate:"required"`
	NotesTete   []string
	NotesCoeur  []string
	NotesFond   []string
	Intensite   string
	Description string
	APropos     string
	Conseils    string
	Price       float64 `validate:"gte=0"`
	Slug        string
}

// VariantRow is the typed form of one price-list row. The price list shares
// the product spreadsheet's reference codes but formats them differently, so
// references are normalized at parse time.
type VariantRow struct {
	Reference string  `validate:"required"`
	Volume    int     `validate:"gt=0"`
	Price     float64 `validate:"gte=0"`
	Ref       string
}

// ParseProductRow converts a raw header-keyed record into a validated
// ProductRow, deriving the computed fields (slug, genre code, note lists).
func ParseProductRow(record map[string]string) (ProductRow, error) {
	reference := NormalizeRef(column(record, "Référence"))
	inspiration := strings.TrimSpace(column(record, "Inspiration"))

	row := ProductRow{
		Reference:   reference,
		Inspiration: inspiration,
		Genre:       ConvertGenre(column(record, "Genre")),
		Famille:     strings.TrimSpace(column(record, "Famille olfactive")),
		NotesTete:   ParseNotes(column(record, "Notes de tête")),
		NotesCoeur:  ParseNotes(column(record, "Notes de cœur")),
		NotesFond:   ParseNotes(column(record, "Notes de fond")),
		Intensite:   strings.TrimSpace(column(record, "Intensité")),
		Description: textWithDefault(column(record, "Description"), defaultDescription),
		APropos:     textWithDefault(column(record, "À propos"), defaultAPropos),
		Conseils:    textWithDefault(column(record, "Conseils"), defaultConseils),
		Price:       parsePrice(column(record, "Prix")),
		Slug:        CreateSlug(inspiration + "-" + reference),
	}

	if err := validate.Struct(row); err != nil {
		return ProductRow{}, fmt.Errorf("invalid product row (reference %q): %w", reference, err)
	}

	return row, nil
}

// ParseVariantRow converts a raw price-list record into a validated VariantRow.
func ParseVariantRow(record map[string]string) (VariantRow, error) {
	reference := NormalizeRef(column(record, "Référence"))

	row := VariantRow{
		Reference: reference,
		Volume:    parseVolume(column(record, "Contenance")),
		Price:     parsePrice(column(record, "Prix")),
		Ref:       strings.TrimSpace(column(record, "Réf")),
	}

	if row.Ref == "" && row.Volume > 0 {
		row.Ref = fmt.Sprintf("%s-%d", reference, row.Volume)
	}

	if err := validate.Struct(row); err != nil {
		return VariantRow{}, fmt.Errorf("invalid variant row (reference %q): %w", reference, err)
	}

	return row, nil
}

func textWithDefault(value, fallback string) string {
	clean := strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
	if clean == "" {
		return fallback
	}
	return clean
}

// parsePrice extracts the first number from a price cell, tolerating the
// French decimal comma and currency suffixes ("29,90 €").
func parsePrice(value string) float64 {
	match := pricePattern.FindString(value)
	if match == "" {
		return 0
	}
	match = strings.ReplaceAll(match, ",", ".")
	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// parseVolume extracts the first integer from a volume cell ("70 ml" -> 70).
func parseVolume(value string) int {
	match := volumePattern.FindString(value)
	if match == "" {
		return 0
	}
	parsed, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return parsed
}
