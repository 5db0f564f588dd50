package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "parfumerie/internal/log"
	"parfumerie/models"
)

type variantResponse struct {
	ID     uint    `json:"id,omitempty"`
	Volume int     `json:"volume"`
	Price  float64 `json:"price"`
	Ref    string  `json:"ref"`
}

type parfumResponse struct {
	ID               uint              `json:"id"`
	Reference        string            `json:"reference"`
	Slug             string            `json:"slug"`
	Inspiration      string            `json:"inspiration"`
	Genre            string            `json:"genre"`
	FamilleID        uint              `json:"famille_id"`
	Famille          *familleResponse  `json:"famille,omitempty"`
	NotesTete        []string          `json:"notes_tete"`
	NotesCoeur       []string          `json:"notes_coeur"`
	NotesFond        []string          `json:"notes_fond"`
	Variants         []variantResponse `json:"variants"`
	Price            float64           `json:"price"`
	Intensite        string            `json:"intensite"`
	Description      string            `json:"description"`
	APropos          string            `json:"a_propos"`
	Conseils         string            `json:"conseils"`
	ImagePlaceholder string            `json:"image_placeholder"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type parfumRequest struct {
	Reference        string            `json:"reference"`
	Slug             string            `json:"slug"`
	Inspiration      string            `json:"inspiration"`
	Genre            string            `json:"genre"`
	FamilleID        uint              `json:"famille_id"`
	NotesTete        []string          `json:"notes_tete"`
	NotesCoeur       []string          `json:"notes_coeur"`
	NotesFond        []string          `json:"notes_fond"`
	Variants         []variantResponse `json:"variants"`
	Price            float64           `json:"price"`
	Intensite        string            `json:"intensite"`
	Description      string            `json:"description"`
	APropos          string            `json:"a_propos"`
	Conseils         string            `json:"conseils"`
	ImagePlaceholder string            `json:"image_placeholder"`
}

type variantsUpdateRequest struct {
	Variants []variantResponse `json:"variants"`
	Price    float64           `json:"price"`
}

// ParfumsResource handles REST-style interactions with the parfums collection.
func ParfumsResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "parfum request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/parfums")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listParfums(w, r)
		case http.MethodPost:
			if requireToken(w, r) {
				createParfum(w, r)
			}
		case http.MethodDelete:
			if requireToken(w, r) {
				clearParfums(w, r)
			}
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid parfum identifier", "identifier", segments[0], "error", err)
		http.NotFound(w, r)
		return
	}
	parfumID := uint(idValue)

	if len(segments) > 1 && segments[1] == "variants" {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if requireToken(w, r) {
			replaceVariants(w, r, parfumID)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showParfum(w, r, parfumID)
	case http.MethodPut:
		if requireToken(w, r) {
			replaceParfum(w, r, parfumID)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listParfums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).
		Preload("Variants").
		Preload("Famille").
		Order("reference asc")

	if reference := whereParam(r, "reference", "equals"); reference != "" {
		query = query.Where("reference = ?", reference)
	}
	if slug := whereParam(r, "slug", "equals"); slug != "" {
		query = query.Where("slug = ?", slug)
	}
	if genre := whereParam(r, "genre", "equals"); genre != "" {
		query = query.Where("genre = ?", genre)
	}

	var results []models.Parfum
	if err := query.Limit(limitParam(r, 100)).Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list parfums", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load parfums")
		return
	}

	docs := make([]parfumResponse, 0, len(results))
	for _, parfum := range results {
		docs = append(docs, projectParfum(parfum))
	}
	writeJSON(w, http.StatusOK, docsResponse{Docs: docs, TotalDocs: len(docs)})
}

func showParfum(w http.ResponseWriter, r *http.Request, parfumID uint) {
	ctx := r.Context()
	var parfum models.Parfum
	err := database.WithContext(ctx).Preload("Variants").Preload("Famille").First(&parfum, parfumID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load parfum", "id", parfumID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load parfum")
		return
	}
	writeJSON(w, http.StatusOK, projectParfum(parfum))
}

func createParfum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload parfumRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Reference) == "" || strings.TrimSpace(payload.Slug) == "" {
		writeJSONError(w, http.StatusBadRequest, "reference and slug are required")
		return
	}

	var count int64
	if err := database.WithContext(ctx).Model(&models.Parfum{}).
		Where("reference = ? OR slug = ?", payload.Reference, payload.Slug).
		Count(&count).Error; err != nil {
		applog.Error(ctx, "failed to check parfum uniqueness", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create parfum")
		return
	}
	if count > 0 {
		writeJSONError(w, http.StatusConflict, "reference or slug already exists")
		return
	}

	parfum := parfumFromRequest(payload)
	if err := database.WithContext(ctx).Create(parfum).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeJSONError(w, http.StatusConflict, "reference or slug already exists")
			return
		}
		applog.Error(ctx, "failed to create parfum", "reference", payload.Reference, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create parfum")
		return
	}

	applog.Info(ctx, "parfum created", "reference", parfum.Reference, "id", parfum.ID)
	writeJSON(w, http.StatusCreated, projectParfum(*parfum))
}

func replaceParfum(w http.ResponseWriter, r *http.Request, parfumID uint) {
	ctx := r.Context()
	var payload parfumRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var existing models.Parfum
	if err := database.WithContext(ctx).First(&existing, parfumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load parfum", "id", parfumID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to replace parfum")
		return
	}

	parfum := parfumFromRequest(payload)
	parfum.ID = existing.ID
	parfum.CreatedAt = existing.CreatedAt

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("parfum_id = ?", existing.ID).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		return tx.Save(parfum).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to replace parfum", "id", parfumID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to replace parfum")
		return
	}

	applog.Info(ctx, "parfum replaced", "reference", parfum.Reference, "id", parfum.ID)
	writeJSON(w, http.StatusOK, projectParfum(*parfum))
}

func replaceVariants(w http.ResponseWriter, r *http.Request, parfumID uint) {
	ctx := r.Context()
	var payload variantsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var parfum models.Parfum
	if err := database.WithContext(ctx).First(&parfum, parfumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load parfum", "id", parfumID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to update variants")
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("parfum_id = ?", parfum.ID).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		for _, variant := range payload.Variants {
			record := models.Variant{
				ParfumID: parfum.ID,
				Volume:   variant.Volume,
				Price:    variant.Price,
				Ref:      variant.Ref,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return tx.Model(&parfum).Update("price", payload.Price).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to update variants", "id", parfumID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to update variants")
		return
	}

	var updated models.Parfum
	if err := database.WithContext(ctx).Preload("Variants").First(&updated, parfumID).Error; err != nil {
		applog.Error(ctx, "failed to reload parfum", "id", parfumID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to update variants")
		return
	}
	writeJSON(w, http.StatusOK, projectParfum(updated))
}

func clearParfums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("1 = 1").Delete(&models.Parfum{}).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to clear parfums", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to clear parfums")
		return
	}
	applog.Info(ctx, "parfums collection cleared")
	w.WriteHeader(http.StatusNoContent)
}

func parfumFromRequest(payload parfumRequest) *models.Parfum {
	parfum := &models.Parfum{
		Reference:        strings.TrimSpace(payload.Reference),
		Slug:             strings.TrimSpace(payload.Slug),
		Inspiration:      strings.TrimSpace(payload.Inspiration),
		Genre:            payload.Genre,
		FamilleID:        payload.FamilleID,
		NotesTete:        payload.NotesTete,
		NotesCoeur:       payload.NotesCoeur,
		NotesFond:        payload.NotesFond,
		Price:            payload.Price,
		Intensite:        payload.Intensite,
		Description:      payload.Description,
		APropos:          payload.APropos,
		Conseils:         payload.Conseils,
		ImagePlaceholder: payload.ImagePlaceholder,
	}
	for _, variant := range payload.Variants {
		parfum.Variants = append(parfum.Variants, models.Variant{
			Volume: variant.Volume,
			Price:  variant.Price,
			Ref:    variant.Ref,
		})
	}
	return parfum
}

func projectParfum(parfum models.Parfum) parfumResponse {
	resp := parfumResponse{
		ID:               parfum.ID,
		Reference:        parfum.Reference,
		Slug:             parfum.Slug,
		Inspiration:      parfum.Inspiration,
		Genre:            parfum.Genre,
		FamilleID:        parfum.FamilleID,
		NotesTete:        parfum.NotesTete,
		NotesCoeur:       parfum.NotesCoeur,
		NotesFond:        parfum.NotesFond,
		Variants:         make([]variantResponse, 0, len(parfum.Variants)),
		Price:            parfum.Price,
		Intensite:        parfum.Intensite,
		Description:      parfum.Description,
		APropos:          parfum.APropos,
		Conseils:         parfum.Conseils,
		ImagePlaceholder: parfum.ImagePlaceholder,
		CreatedAt:        parfum.CreatedAt,
		UpdatedAt:        parfum.UpdatedAt,
	}
	if parfum.Famille != nil {
		famille := projectFamille(*parfum.Famille)
		resp.Famille = &famille
	}
	for _, variant := range parfum.Variants {
		resp.Variants = append(resp.Variants, variantResponse{
			ID:     variant.ID,
			Volume: variant.Volume,
			Price:  variant.Price,
			Ref:    variant.Ref,
		})
	}
	return resp
}
