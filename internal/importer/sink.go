package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parfumerie/models"
)

// Sentinel errors shared by all sink implementations.
var (
	// ErrNotFound is returned by sink lookups when no matching document exists.
	ErrNotFound = errors.New("importer: not found")
	// ErrDuplicate is returned when a create collides with an existing
	// reference, slug, or family name.
	ErrDuplicate = errors.New("importer: already exists")
)

// Policy selects what happens when an imported reference already exists.
type Policy string

const (
	// PolicySkip leaves existing products untouched.
	PolicySkip Policy = "skip"
	// PolicyOverwrite replaces the whole existing document.
	PolicyOverwrite Policy = "overwrite"
	// PolicyReset clears both collections before importing.
	PolicyReset Policy = "reset"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case PolicySkip, "":
		return PolicySkip, nil
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyReset:
		return PolicyReset, nil
	default:
		return "", fmt.Errorf("unknown import policy %q", value)
	}
}

// Sink abstracts the destination store so one pipeline can write through a
// direct database connection or the catalog REST API.
type Sink interface {
	FindParfumByReference(ctx context.Context, reference string) (*models.Parfum, error)
	CreateParfum(ctx context.Context, parfum *models.Parfum) error
	ReplaceParfum(ctx context.Context, parfum *models.Parfum) error
	ReplaceVariants(ctx context.Context, reference string, variants []models.Variant, price float64) error
	FindFamilleByName(ctx context.Context, nom string) (*models.Famille, error)
	CreateFamille(ctx context.Context, famille *models.Famille) error
	Reset(ctx context.Context) error
}

// Report summarizes one import run.
type Report struct {
	Imported int
	Skipped  int
	Errored  int
	Familles int
	Variants int
}

func (r Report) String() string {
	return fmt.Sprintf("%d imported, %d skipped, %d errors, %d familles created, %d variants attached",
		r.Imported, r.Skipped, r.Errored, r.Familles, r.Variants)
}
