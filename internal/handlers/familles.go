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

type familleResponse struct {
	ID               uint      `json:"id"`
	Nom              string    `json:"nom"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	Genre            string    `json:"genre"`
	Saison           string    `json:"saison"`
	Intensite        string    `json:"intensite"`
	ImagePlaceholder string    `json:"image_placeholder"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type familleRequest struct {
	Nom              string `json:"nom"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	Genre            string `json:"genre"`
	Saison           string `json:"saison"`
	Intensite        string `json:"intensite"`
	ImagePlaceholder string `json:"image_placeholder"`
}

// FamillesResource handles REST-style interactions with the
// familles-olfactives collection.
func FamillesResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "famille request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/familles-olfactives")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listFamilles(w, r)
		case http.MethodPost:
			if requireToken(w, r) {
				createFamille(w, r)
			}
		case http.MethodDelete:
			if requireToken(w, r) {
				clearFamilles(w, r)
			}
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid famille identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	showFamille(w, r, uint(idValue))
}

func listFamilles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).Order("nom asc")

	if nom := whereParam(r, "nom", "equals"); nom != "" {
		query = query.Where("nom = ?", nom)
	}
	if nom := whereParam(r, "nom", "like"); nom != "" {
		// Substring in either direction, mirroring the importer's direct
		// store lookup.
		query = query.Where("nom LIKE ? OR ? LIKE ('%' || nom || '%')", "%"+nom+"%", nom)
	}
	if slug := whereParam(r, "slug", "equals"); slug != "" {
		query = query.Where("slug = ?", slug)
	}

	var results []models.Famille
	if err := query.Limit(limitParam(r, 100)).Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list familles", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load familles")
		return
	}

	docs := make([]familleResponse, 0, len(results))
	for _, famille := range results {
		docs = append(docs, projectFamille(famille))
	}
	writeJSON(w, http.StatusOK, docsResponse{Docs: docs, TotalDocs: len(docs)})
}

func showFamille(w http.ResponseWriter, r *http.Request, familleID uint) {
	ctx := r.Context()
	var famille models.Famille
	if err := database.WithContext(ctx).First(&famille, familleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load famille", "id", familleID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load famille")
		return
	}
	writeJSON(w, http.StatusOK, projectFamille(famille))
}

func createFamille(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload familleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Nom) == "" {
		writeJSONError(w, http.StatusBadRequest, "nom is required")
		return
	}

	var count int64
	if err := database.WithContext(ctx).Model(&models.Famille{}).
		Where("nom = ?", strings.TrimSpace(payload.Nom)).
		Count(&count).Error; err != nil {
		applog.Error(ctx, "failed to check famille uniqueness", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create famille")
		return
	}
	if count > 0 {
		writeJSONError(w, http.StatusConflict, "famille already exists")
		return
	}

	famille := &models.Famille{
		Nom:              strings.TrimSpace(payload.Nom),
		Slug:             strings.TrimSpace(payload.Slug),
		Description:      payload.Description,
		Genre:            payload.Genre,
		Saison:           payload.Saison,
		Intensite:        payload.Intensite,
		ImagePlaceholder: payload.ImagePlaceholder,
	}
	if err := database.WithContext(ctx).Create(famille).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeJSONError(w, http.StatusConflict, "famille already exists")
			return
		}
		applog.Error(ctx, "failed to create famille", "nom", payload.Nom, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create famille")
		return
	}

	applog.Info(ctx, "famille created", "nom", famille.Nom, "id", famille.ID)
	writeJSON(w, http.StatusCreated, projectFamille(*famille))
}

func clearFamilles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := database.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&models.Famille{}).Error; err != nil {
		applog.Error(ctx, "failed to clear familles", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to clear familles")
		return
	}
	applog.Info(ctx, "familles collection cleared")
	w.WriteHeader(http.StatusNoContent)
}

func projectFamille(famille models.Famille) familleResponse {
	return familleResponse{
		ID:               famille.ID,
		Nom:              famille.Nom,
		Slug:             famille.Slug,
		Description:      famille.Description,
		Genre:            famille.Genre,
		Saison:           famille.Saison,
		Intensite:        famille.Intensite,
		ImagePlaceholder: famille.ImagePlaceholder,
		CreatedAt:        famille.CreatedAt,
		UpdatedAt:        famille.UpdatedAt,
	}
}
