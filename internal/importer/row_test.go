package importer

import (
	"reflect"
	"testing"

	"parfumerie/models"
)

func TestParseProductRow(t *testing.T) {
	t.Parallel()

	record := map[string]string{
		"Référence":         "7",
		"Inspiration":       "Jardin Blanc",
		"Genre":             "Femme",
		"Famille olfactive": "Florale",
		"Notes de tête":     "Bergamote, Citron",
		"Notes de cœur":     "Jasmin – Rose",
		"Notes de fond":     "Musc",
		"Intensité":         "légère",
		"Prix":              "34,90 €",
	}

	row, err := ParseProductRow(record)
	if err != nil {
		t.Fatalf("ParseProductRow returned error: %v", err)
	}

	if row.Reference != "007" {
		t.Fatalf("expected normalized reference 007, got %q", row.Reference)
	}
	if row.Slug != "jardin-blanc-007" {
		t.Fatalf("unexpected slug %q", row.Slug)
	}
	if row.Genre != models.GenreFemme {
		t.Fatalf("expected genre %q, got %q", models.GenreFemme, row.Genre)
	}
	if !reflect.DeepEqual(row.NotesTete, []string{"Bergamote", "Citron"}) {
		t.Fatalf("unexpected head notes %v", row.NotesTete)
	}
	if !reflect.DeepEqual(row.NotesCoeur, []string{"Jasmin", "Rose"}) {
		t.Fatalf("unexpected heart notes %v", row.NotesCoeur)
	}
	if row.Price != 34.90 {
		t.Fatalf("expected price 34.90, got %v", row.Price)
	}
	if row.Description != defaultDescription {
		t.Fatalf("expected default description, got %q", row.Description)
	}
	if row.APropos != defaultAPropos {
		t.Fatalf("expected default à propos, got %q", row.APropos)
	}
	if row.Conseils != defaultConseils {
		t.Fatalf("expected default conseils, got %q", row.Conseils)
	}
}

func TestParseProductRowValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record map[string]string
	}{
		{
			name: "missing reference",
			record: map[string]string{
				"Inspiration":       "Jardin Blanc",
				"Famille olfactive": "Florale",
			},
		},
		{
			name: "missing inspiration",
			record: map[string]string{
				"Référence":         "001",
				"Famille olfactive": "Florale",
			},
		},
		{
			name: "missing famille",
			record: map[string]string{
				"Référence":   "001",
				"Inspiration": "Jardin Blanc",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseProductRow(tt.record); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestParseVariantRow(t *testing.T) {
	t.Parallel()

	row, err := ParseVariantRow(map[string]string{
		"Référence":  "7",
		"Contenance": "70 ml",
		"Prix":       "39,90",
		"Réf":        "",
	})
	if err != nil {
		t.Fatalf("ParseVariantRow returned error: %v", err)
	}

	if row.Reference != "007" {
		t.Fatalf("expected normalized reference 007, got %q", row.Reference)
	}
	if row.Volume != 70 {
		t.Fatalf("expected volume 70, got %d", row.Volume)
	}
	if row.Price != 39.90 {
		t.Fatalf("expected price 39.90, got %v", row.Price)
	}
	if row.Ref != "007-70" {
		t.Fatalf("expected derived ref 007-70, got %q", row.Ref)
	}
}

func TestParseVariantRowKeepsExplicitRef(t *testing.T) {
	t.Parallel()

	row, err := ParseVariantRow(map[string]string{
		"Référence":  "001",
		"Contenance": "30",
		"Prix":       "24.90",
		"Réf":        "JB-30",
	})
	if err != nil {
		t.Fatalf("ParseVariantRow returned error: %v", err)
	}
	if row.Ref != "JB-30" {
		t.Fatalf("expected explicit ref to survive, got %q", row.Ref)
	}
}

func TestParseVariantRowRejectsZeroVolume(t *testing.T) {
	t.Parallel()

	if _, err := ParseVariantRow(map[string]string{
		"Référence":  "001",
		"Contenance": "sans objet",
		"Prix":       "24.90",
	}); err == nil {
		t.Fatal("expected validation error for unparseable volume")
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  float64
	}{
		{input: "29,90 €", want: 29.90},
		{input: "29.90", want: 29.90},
		{input: "35", want: 35},
		{input: "prix : 42,00", want: 42},
		{input: "", want: 0},
		{input: "gratuit", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := parsePrice(tt.input); got != tt.want {
				t.Fatalf("parsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int
	}{
		{input: "70 ml", want: 70},
		{input: "30", want: 30},
		{input: "100ml", want: 100},
		{input: "", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := parseVolume(tt.input); got != tt.want {
				t.Fatalf("parseVolume(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
