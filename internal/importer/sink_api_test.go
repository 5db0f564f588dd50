package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"parfumerie/internal/handlers"
	"parfumerie/models"
)

// newCatalogAPI exposes the real HTTP handlers over a fresh database, so the
// API sink is exercised against the exact surface the server ships.
func newCatalogAPI(t *testing.T, token string) *httptest.Server {
	t.Helper()

	database := newTestDB(t)
	handlers.Configure(database, token)
	t.Cleanup(func() { handlers.Configure(nil, "") })

	mux := http.NewServeMux()
	mux.HandleFunc("/api/parfums", handlers.ParfumsResource)
	mux.HandleFunc("/api/parfums/", handlers.ParfumsResource)
	mux.HandleFunc("/api/familles-olfactives", handlers.FamillesResource)
	mux.HandleFunc("/api/familles-olfactives/", handlers.FamillesResource)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAPISinkRoundTrip(t *testing.T) {
	srv := newCatalogAPI(t, "sesame")
	sink := NewAPISink(srv.URL, "sesame")
	ctx := context.Background()

	famille := &models.Famille{Nom: "Florale", Slug: "florale", Genre: models.GenreUniversel}
	require.NoError(t, sink.CreateFamille(ctx, famille))
	require.NotZero(t, famille.ID, "create must backfill the stored ID")

	found, err := sink.FindFamilleByName(ctx, "Florale")
	require.NoError(t, err)
	require.Equal(t, famille.ID, found.ID)

	parfum := &models.Parfum{
		Reference:   "001",
		Slug:        "jardin-blanc-001",
		Inspiration: "Jardin Blanc",
		Genre:       models.GenreFemme,
		FamilleID:   famille.ID,
		NotesTete:   []string{"Bergamote"},
		Price:       34.90,
	}
	require.NoError(t, sink.CreateParfum(ctx, parfum))

	require.ErrorIs(t, sink.CreateParfum(ctx, &models.Parfum{
		Reference:   "001",
		Slug:        "jardin-blanc-001",
		Inspiration: "Jardin Blanc",
	}), ErrDuplicate)

	variants := []models.Variant{
		{Volume: 30, Price: 24.90, Ref: "001-30"},
		{Volume: 70, Price: 34.90, Ref: "001-70"},
	}
	require.NoError(t, sink.ReplaceVariants(ctx, "001", variants, 34.90))

	stored, err := sink.FindParfumByReference(ctx, "001")
	require.NoError(t, err)
	require.Len(t, stored.Variants, 2)
	require.Equal(t, 34.90, stored.Price)

	_, err = sink.FindParfumByReference(ctx, "999")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, sink.ReplaceVariants(ctx, "999", variants, 0), ErrNotFound)
}

func TestAPISinkRejectsMissingToken(t *testing.T) {
	srv := newCatalogAPI(t, "sesame")
	sink := NewAPISink(srv.URL, "")

	err := sink.CreateFamille(context.Background(), &models.Famille{Nom: "Chypre", Slug: "chypre"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicate)
}

func TestImporterRunsThroughAPISink(t *testing.T) {
	products := writeCSV(t, "catalogue.csv", productsHeader+
		"001,Jardin Blanc,Femme,Florale,Bergamote,Jasmin,Musc,légère,,,,34.90\n"+
		"002,Écorce Noire,Homme,Boisée,Poivre,Cèdre,Vétiver,intense,,,,39.90\n")
	variants := writeCSV(t, "contenances.csv",
		"Référence,Contenance,Prix,Réf\n"+
			"1,30,24.90,\n"+
			"1,70,34.90,\n")

	srv := newCatalogAPI(t, "")
	sink := NewAPISink(srv.URL, "")

	report, err := New(sink, testOptions(PolicySkip)).Run(context.Background(), products, "", variants)
	require.NoError(t, err)
	require.Equal(t, 2, report.Imported)
	require.Equal(t, 2, report.Familles)
	require.Equal(t, 2, report.Variants)

	stored, err := sink.FindParfumByReference(context.Background(), "001")
	require.NoError(t, err)
	require.Len(t, stored.Variants, 2)
	require.Equal(t, 34.90, stored.Price)
}
