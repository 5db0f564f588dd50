package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "parfumerie/internal/log"
	"parfumerie/models"
)

var databaseSeq atomic.Int64

// New returns an in-memory sqlite database seeded with representative catalog
// data. Each call opens a fresh database so tests stay isolated.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:parfumerie-mock-%d?mode=memory&cache=shared", databaseSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Famille{},
		&models.Parfum{},
		&models.Variant{},
		&models.User{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte("comptoir"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Camille Bertrand",
		Email:        "camille@parfumerie.app",
		PasswordHash: string(password),
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	florale := models.Famille{
		Nom:              "Florale",
		Slug:             "florale",
		Description:      "Bouquets lumineux construits autour de la rose, du jasmin et de la pivoine.",
		Genre:            models.GenreFemme,
		Saison:           "printemps",
		Intensite:        "moderee",
		ImagePlaceholder: "florale",
	}

	boisee := models.Famille{
		Nom:              "Boisée",
		Slug:             "boisee",
		Description:      "Accords chaleureux de cèdre, vétiver et santal.",
		Genre:            models.GenreHomme,
		Saison:           "automne",
		Intensite:        "intense",
		ImagePlaceholder: "boisee",
	}

	familles := []*models.Famille{&florale, &boisee}
	for _, famille := range familles {
		if err := db.WithContext(ctx).Create(famille).Error; err != nil {
			return err
		}
	}

	jardin := models.Parfum{
		Reference:        "001",
		Slug:             "jardin-blanc-001",
		Inspiration:      "Jardin Blanc",
		Genre:            models.GenreFemme,
		FamilleID:        florale.ID,
		NotesTete:        []string{"Bergamote", "Poire"},
		NotesCoeur:       []string{"Jasmin", "Pivoine"},
		NotesFond:        []string{"Musc blanc", "Cèdre"},
		Price:            34.9,
		Intensite:        "moderee",
		Description:      "Un bouquet blanc éclatant posé sur un fond musqué.",
		APropos:          "Inspiré des grands floraux de la parfumerie française.",
		Conseils:         "À porter au quotidien, du matin au soir.",
		ImagePlaceholder: "florale",
	}

	ecorce := models.Parfum{
		Reference:        "002",
		Slug:             "ecorce-noire-002",
		Inspiration:      "Écorce Noire",
		Genre:            models.GenreHomme,
		FamilleID:        boisee.ID,
		NotesTete:        []string{"Poivre noir"},
		NotesCoeur:       []string{"Vétiver", "Patchouli"},
		NotesFond:        []string{"Santal", "Cuir"},
		Price:            39.9,
		Intensite:        "intense",
		Description:      "Un boisé sombre et racé pour les soirées d'hiver.",
		APropos:          "Un sillage affirmé construit autour du vétiver d'Haïti.",
		Conseils:         "Réservé aux soirées et aux saisons froides.",
		ImagePlaceholder: "boisee",
	}

	parfums := []*models.Parfum{&jardin, &ecorce}
	for _, parfum := range parfums {
		if err := db.WithContext(ctx).Create(parfum).Error; err != nil {
			return err
		}
	}

	variants := []models.Variant{
		{ParfumID: jardin.ID, Volume: 30, Price: 19.9, Ref: "001-30"},
		{ParfumID: jardin.ID, Volume: 70, Price: 34.9, Ref: "001-70"},
		{ParfumID: ecorce.ID, Volume: 70, Price: 39.9, Ref: "002-70"},
	}

	for _, variant := range variants {
		variantCopy := variant
		if err := db.WithContext(ctx).Create(&variantCopy).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
