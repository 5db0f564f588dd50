package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parfumerie/models"
)

// APISink writes catalog documents through the catalog REST API instead of a
// direct store connection. It speaks the same envelope the server exposes:
// list responses wrap documents in {"docs": [...], "totalDocs": n} and
// existence checks use where-clause query parameters.
type APISink struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewAPISink targets a catalog API at baseURL, authenticating writes with the
// given bearer token when one is set.
func NewAPISink(baseURL, token string) *APISink {
	return &APISink{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type familleDoc struct {
	ID               uint   `json:"id"`
	Nom              string `json:"nom"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	Genre            string `json:"genre"`
	Saison           string `json:"saison"`
	Intensite        string `json:"intensite"`
	ImagePlaceholder string `json:"image_placeholder"`
}

type variantDoc struct {
	ID     uint    `json:"id,omitempty"`
	Volume int     `json:"volume"`
	Price  float64 `json:"price"`
	Ref    string  `json:"ref"`
}

type parfumDoc struct {
	ID               uint         `json:"id,omitempty"`
	Reference        string       `json:"reference"`
	Slug             string       `json:"slug"`
	Inspiration      string       `json:"inspiration"`
	Genre            string       `json:"genre"`
	FamilleID        uint         `json:"famille_id"`
	NotesTete        []string     `json:"notes_tete"`
	NotesCoeur       []string     `json:"notes_coeur"`
	NotesFond        []string     `json:"notes_fond"`
	Variants         []variantDoc `json:"variants"`
	Price            float64      `json:"price"`
	Intensite        string       `json:"intensite"`
	Description      string       `json:"description"`
	APropos          string       `json:"a_propos"`
	Conseils         string       `json:"conseils"`
	ImagePlaceholder string       `json:"image_placeholder"`
}

type docsEnvelope[T any] struct {
	Docs      []T `json:"docs"`
	TotalDocs int `json:"totalDocs"`
}

type variantsRequest struct {
	Variants []variantDoc `json:"variants"`
	Price    float64      `json:"price"`
}

func (s *APISink) FindParfumByReference(ctx context.Context, reference string) (*models.Parfum, error) {
	query := url.Values{}
	query.Set("where[reference][equals]", reference)
	query.Set("limit", "1")

	var envelope docsEnvelope[parfumDoc]
	if err := s.do(ctx, http.MethodGet, "/api/parfums?"+query.Encode(), nil, &envelope); err != nil {
		return nil, fmt.Errorf("find parfum %q: %w", reference, err)
	}
	if len(envelope.Docs) == 0 {
		return nil, ErrNotFound
	}
	parfum := docToParfum(envelope.Docs[0])
	return &parfum, nil
}

func (s *APISink) CreateParfum(ctx context.Context, parfum *models.Parfum) error {
	var created parfumDoc
	if err := s.do(ctx, http.MethodPost, "/api/parfums", parfumToDoc(*parfum), &created); err != nil {
		return fmt.Errorf("create parfum %q: %w", parfum.Reference, err)
	}
	parfum.ID = created.ID
	return nil
}

func (s *APISink) ReplaceParfum(ctx context.Context, parfum *models.Parfum) error {
	existing, err := s.FindParfumByReference(ctx, parfum.Reference)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/api/parfums/%d", existing.ID)
	if err := s.do(ctx, http.MethodPut, path, parfumToDoc(*parfum), nil); err != nil {
		return fmt.Errorf("replace parfum %q: %w", parfum.Reference, err)
	}
	parfum.ID = existing.ID
	return nil
}

func (s *APISink) ReplaceVariants(ctx context.Context, reference string, variants []models.Variant, price float64) error {
	existing, err := s.FindParfumByReference(ctx, reference)
	if err != nil {
		return err
	}

	payload := variantsRequest{Price: price, Variants: make([]variantDoc, 0, len(variants))}
	for _, variant := range variants {
		payload.Variants = append(payload.Variants, variantDoc{
			Volume: variant.Volume,
			Price:  variant.Price,
			Ref:    variant.Ref,
		})
	}

	path := fmt.Sprintf("/api/parfums/%d/variants", existing.ID)
	if err := s.do(ctx, http.MethodPut, path, payload, nil); err != nil {
		return fmt.Errorf("replace variants for %q: %w", reference, err)
	}
	return nil
}

func (s *APISink) FindFamilleByName(ctx context.Context, nom string) (*models.Famille, error) {
	for _, clause := range []string{"equals", "like"} {
		query := url.Values{}
		query.Set("where[nom]["+clause+"]", nom)
		query.Set("limit", "1")

		var envelope docsEnvelope[familleDoc]
		if err := s.do(ctx, http.MethodGet, "/api/familles-olfactives?"+query.Encode(), nil, &envelope); err != nil {
			return nil, fmt.Errorf("find famille %q: %w", nom, err)
		}
		if len(envelope.Docs) > 0 {
			famille := docToFamille(envelope.Docs[0])
			return &famille, nil
		}
	}
	return nil, ErrNotFound
}

func (s *APISink) CreateFamille(ctx context.Context, famille *models.Famille) error {
	payload := familleDoc{
		Nom:              famille.Nom,
		Slug:             famille.Slug,
		Description:      famille.Description,
		Genre:            famille.Genre,
		Saison:           famille.Saison,
		Intensite:        famille.Intensite,
		ImagePlaceholder: famille.ImagePlaceholder,
	}

	var created familleDoc
	if err := s.do(ctx, http.MethodPost, "/api/familles-olfactives", payload, &created); err != nil {
		return fmt.Errorf("create famille %q: %w", famille.Nom, err)
	}
	famille.ID = created.ID
	return nil
}

func (s *APISink) Reset(ctx context.Context) error {
	if err := s.do(ctx, http.MethodDelete, "/api/parfums", nil, nil); err != nil {
		return fmt.Errorf("reset parfums: %w", err)
	}
	if err := s.do(ctx, http.MethodDelete, "/api/familles-olfactives", nil, nil); err != nil {
		return fmt.Errorf("reset familles: %w", err)
	}
	return nil
}

// do performs one API round trip, folding HTTP status codes into the sink's
// sentinel errors so the pipeline treats both sinks identically.
func (s *APISink) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrDuplicate
	case resp.StatusCode >= 400:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func docToParfum(doc parfumDoc) models.Parfum {
	parfum := models.Parfum{
		Reference:        doc.Reference,
		Slug:             doc.Slug,
		Inspiration:      doc.Inspiration,
		Genre:            doc.Genre,
		FamilleID:        doc.FamilleID,
		NotesTete:        doc.NotesTete,
		NotesCoeur:       doc.NotesCoeur,
		NotesFond:        doc.NotesFond,
		Price:            doc.Price,
		Intensite:        doc.Intensite,
		Description:      doc.Description,
		APropos:          doc.APropos,
		Conseils:         doc.Conseils,
		ImagePlaceholder: doc.ImagePlaceholder,
	}
	parfum.ID = doc.ID
	for _, variant := range doc.Variants {
		converted := models.Variant{
			ParfumID: doc.ID,
			Volume:   variant.Volume,
			Price:    variant.Price,
			Ref:      variant.Ref,
		}
		converted.ID = variant.ID
		parfum.Variants = append(parfum.Variants, converted)
	}
	return parfum
}

func parfumToDoc(parfum models.Parfum) parfumDoc {
	doc := parfumDoc{
		Reference:        parfum.Reference,
		Slug:             parfum.Slug,
		Inspiration:      parfum.Inspiration,
		Genre:            parfum.Genre,
		FamilleID:        parfum.FamilleID,
		NotesTete:        parfum.NotesTete,
		NotesCoeur:       parfum.NotesCoeur,
		NotesFond:        parfum.NotesFond,
		Price:            parfum.Price,
		Intensite:        parfum.Intensite,
		Description:      parfum.Description,
		APropos:          parfum.APropos,
		Conseils:         parfum.Conseils,
		ImagePlaceholder: parfum.ImagePlaceholder,
	}
	for _, variant := range parfum.Variants {
		doc.Variants = append(doc.Variants, variantDoc{
			Volume: variant.Volume,
			Price:  variant.Price,
			Ref:    variant.Ref,
		})
	}
	return doc
}

func docToFamille(doc familleDoc) models.Famille {
	famille := models.Famille{
		Nom:              doc.Nom,
		Slug:             doc.Slug,
		Description:      doc.Description,
		Genre:            doc.Genre,
		Saison:           doc.Saison,
		Intensite:        doc.Intensite,
		ImagePlaceholder: doc.ImagePlaceholder,
	}
	famille.ID = doc.ID
	return famille
}
