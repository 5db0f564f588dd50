package importer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"parfumerie/models"
)

var (
	slugPattern       = regexp.MustCompile(`[^a-z0-9]+`)
	numericRefPattern = regexp.MustCompile(`^[0-9]+$`)
	noteDelimiters    = regexp.MustCompile(`[–,-]`)
	cleanWhitespace   = regexp.MustCompile(`\s+`)
)

// accentStripper decomposes accented characters and removes the combining
// marks, so "fougère" collapses to "fougere".
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripAccents(value string) string {
	stripped, _, err := transform.String(accentStripper, value)
	if err != nil {
		return value
	}
	return stripped
}

// CreateSlug derives a URL-safe identifier from free text: lowercase, accents
// stripped, runs of non-alphanumerics collapsed to single hyphens. Idempotent.
func CreateSlug(text string) string {
	lowered := stripAccents(strings.ToLower(strings.TrimSpace(text)))
	lowered = slugPattern.ReplaceAllString(lowered, "-")
	return strings.Trim(lowered, "-")
}

// ConvertGenre maps the raw spreadsheet genre column to a genre code.
// "Femme..." becomes F, "Homme..." becomes H, anything else is universal.
func ConvertGenre(text string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(trimmed, "F"):
		return models.GenreFemme
	case strings.HasPrefix(trimmed, "H"):
		return models.GenreHomme
	default:
		return models.GenreUniversel
	}
}

// ParseNotes splits a free-text notes column on dashes and commas, trimming
// each token and dropping empties while preserving order.
func ParseNotes(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := noteDelimiters.Split(text, -1)
	notes := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(cleanWhitespace.ReplaceAllString(part, " "))
		if clean == "" {
			continue
		}
		notes = append(notes, clean)
	}
	return notes
}

// placeholderKeywords is checked in order; a family name containing several
// keywords resolves to the first one listed.
var placeholderKeywords = []struct {
	keyword string
	image   string
}{
	{"flor", "florale"},
	{"bois", "boisee"},
	{"orient", "orientale"},
	{"fruit", "fruitee"},
	{"aroma", "aromatique"},
	{"agrum", "agrumes"},
	{"chypre", "chypre"},
	{"foug", "fougere"},
}

// DeterminePlaceholder selects the stock image for a family name by keyword
// matching, defaulting to the floral placeholder.
func DeterminePlaceholder(familyName string) string {
	name := stripAccents(strings.ToLower(familyName))
	for _, candidate := range placeholderKeywords {
		if strings.Contains(name, candidate.keyword) {
			return candidate.image
		}
	}
	return "florale"
}

// NormalizeRef reconciles reference codes across the two source spreadsheets,
// which format the same logical ID differently ("1" vs "001"). Purely numeric
// codes are left-padded with zeros to three digits; others pass through.
func NormalizeRef(code string) string {
	trimmed := strings.TrimSpace(code)
	if !numericRefPattern.MatchString(trimmed) {
		return trimmed
	}
	if len(trimmed) >= 3 {
		return trimmed
	}
	return strings.Repeat("0", 3-len(trimmed)) + trimmed
}
