package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"parfumerie/models"
)

// StoreSink writes catalog documents through a direct database connection.
type StoreSink struct {
	db *gorm.DB
}

// NewStoreSink wraps an initialized database handle.
func NewStoreSink(db *gorm.DB) *StoreSink {
	return &StoreSink{db: db}
}

func (s *StoreSink) FindParfumByReference(ctx context.Context, reference string) (*models.Parfum, error) {
	var parfum models.Parfum
	err := s.db.WithContext(ctx).Preload("Variants").Where("reference = ?", reference).First(&parfum).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find parfum %q: %w", reference, err)
	}
	return &parfum, nil
}

func (s *StoreSink) CreateParfum(ctx context.Context, parfum *models.Parfum) error {
	if err := s.db.WithContext(ctx).Create(parfum).Error; err != nil {
		return translateStoreError(fmt.Sprintf("create parfum %q", parfum.Reference), err)
	}
	return nil
}

func (s *StoreSink) ReplaceParfum(ctx context.Context, parfum *models.Parfum) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Parfum
		if err := tx.Where("reference = ?", parfum.Reference).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find parfum %q: %w", parfum.Reference, err)
		}

		if err := tx.Unscoped().Where("parfum_id = ?", existing.ID).Delete(&models.Variant{}).Error; err != nil {
			return fmt.Errorf("clear variants for %q: %w", parfum.Reference, err)
		}

		parfum.ID = existing.ID
		parfum.CreatedAt = existing.CreatedAt
		if err := tx.Save(parfum).Error; err != nil {
			return translateStoreError(fmt.Sprintf("replace parfum %q", parfum.Reference), err)
		}
		return nil
	})
}

func (s *StoreSink) ReplaceVariants(ctx context.Context, reference string, variants []models.Variant, price float64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parfum models.Parfum
		if err := tx.Where("reference = ?", reference).First(&parfum).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find parfum %q: %w", reference, err)
		}

		if err := tx.Unscoped().Where("parfum_id = ?", parfum.ID).Delete(&models.Variant{}).Error; err != nil {
			return fmt.Errorf("clear variants for %q: %w", reference, err)
		}

		for i := range variants {
			variants[i].ID = 0
			variants[i].ParfumID = parfum.ID
			if err := tx.Create(&variants[i]).Error; err != nil {
				return fmt.Errorf("attach variant %q to %q: %w", variants[i].Ref, reference, err)
			}
		}

		if err := tx.Model(&parfum).Update("price", price).Error; err != nil {
			return fmt.Errorf("mirror price for %q: %w", reference, err)
		}
		return nil
	})
}

func (s *StoreSink) FindFamilleByName(ctx context.Context, nom string) (*models.Famille, error) {
	var famille models.Famille
	err := s.db.WithContext(ctx).Where("nom = ?", nom).First(&famille).Error
	if err == nil {
		return &famille, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find famille %q: %w", nom, err)
	}

	// Substring match covers spreadsheet names like "Boisée épicée" against a
	// stored "Boisée" family, in either direction.
	err = s.db.WithContext(ctx).
		Where("nom LIKE ? OR ? LIKE ('%' || nom || '%')", "%"+nom+"%", nom).
		Order("id asc").
		First(&famille).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find famille %q: %w", nom, err)
	}
	return &famille, nil
}

func (s *StoreSink) CreateFamille(ctx context.Context, famille *models.Famille) error {
	if err := s.db.WithContext(ctx).Create(famille).Error; err != nil {
		return translateStoreError(fmt.Sprintf("create famille %q", famille.Nom), err)
	}
	return nil
}

func (s *StoreSink) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.Variant{}).Error; err != nil {
			return fmt.Errorf("reset variants: %w", err)
		}
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.Parfum{}).Error; err != nil {
			return fmt.Errorf("reset parfums: %w", err)
		}
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.Famille{}).Error; err != nil {
			return fmt.Errorf("reset familles: %w", err)
		}
		return nil
	})
}

// translateStoreError folds driver-specific uniqueness violations into
// ErrDuplicate so the pipeline can count them as skips.
func translateStoreError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}
