package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	applog "parfumerie/internal/log"
	"parfumerie/models"
)

// Options tune one import run. Zero values fall back to the defaults the
// import scripts have always used.
type Options struct {
	Policy        Policy
	DisplayVolume int
	RetryAttempts int
	OpTimeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicySkip
	}
	if o.DisplayVolume <= 0 {
		o.DisplayVolume = 70
	}
	if o.RetryAttempts < 1 {
		o.RetryAttempts = 3
	}
	if o.OpTimeout <= 0 {
		o.OpTimeout = 10 * time.Second
	}
	return o
}

// Importer drives the catalog pipeline: read, normalize, resolve families,
// upsert products, attach variants, report.
type Importer struct {
	sink     Sink
	resolver *FamilyResolver
	opts     Options
}

// New builds an Importer writing through the given sink.
func New(sink Sink, opts Options) *Importer {
	return &Importer{
		sink:     sink,
		resolver: NewFamilyResolver(sink),
		opts:     opts.withDefaults(),
	}
}

// Run executes the whole pipeline. Row-level failures are logged, counted,
// and skipped; only a missing CSV or an unusable store aborts the run.
func (imp *Importer) Run(ctx context.Context, productsPath, fallbackPath, variantsPath string) (Report, error) {
	report := Report{}

	records, err := ReadRows(productsPath, fallbackPath)
	if err != nil {
		return report, fmt.Errorf("read products: %w", err)
	}

	variantRecords, err := ReadRows(variantsPath, "")
	if err != nil {
		return report, fmt.Errorf("read variants: %w", err)
	}

	if imp.opts.Policy == PolicyReset {
		if err := imp.withRetry(ctx, func(opCtx context.Context) error {
			return imp.sink.Reset(opCtx)
		}); err != nil {
			return report, fmt.Errorf("reset collections: %w", err)
		}
		applog.Info(ctx, "collections cleared before import")
	}

	for idx, record := range records {
		if err := imp.importProduct(ctx, record, &report); err != nil {
			report.Errored++
			applog.Error(ctx, "product row failed",
				"row", idx+2,
				"reference", column(record, "Référence"),
				"error", err,
			)
		}
	}

	imp.attachVariants(ctx, variantRecords, &report)

	report.Familles = imp.resolver.Created()
	applog.Info(ctx, "import finished", "report", report.String())
	return report, nil
}

func (imp *Importer) importProduct(ctx context.Context, record map[string]string, report *Report) error {
	row, err := ParseProductRow(record)
	if err != nil {
		return err
	}

	familleID, err := imp.resolver.Resolve(ctx, row.Famille)
	if err != nil {
		return fmt.Errorf("resolve famille %q: %w", row.Famille, err)
	}

	parfum := buildParfum(row, familleID)

	var existing *models.Parfum
	if err := imp.withRetry(ctx, func(opCtx context.Context) error {
		found, findErr := imp.sink.FindParfumByReference(opCtx, row.Reference)
		if findErr != nil {
			return findErr
		}
		existing = found
		return nil
	}); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("check existing %q: %w", row.Reference, err)
	}

	if existing != nil {
		if imp.opts.Policy != PolicyOverwrite {
			report.Skipped++
			applog.Warn(ctx, "reference already imported", "reference", row.Reference)
			return nil
		}
		if err := imp.withRetry(ctx, func(opCtx context.Context) error {
			return imp.sink.ReplaceParfum(opCtx, parfum)
		}); err != nil {
			return fmt.Errorf("overwrite %q: %w", row.Reference, err)
		}
		report.Imported++
		return nil
	}

	if err := imp.withRetry(ctx, func(opCtx context.Context) error {
		return imp.sink.CreateParfum(opCtx, parfum)
	}); err != nil {
		if errors.Is(err, ErrDuplicate) {
			report.Skipped++
			applog.Warn(ctx, "reference already imported", "reference", row.Reference)
			return nil
		}
		return fmt.Errorf("create %q: %w", row.Reference, err)
	}

	report.Imported++
	return nil
}

// attachVariants is the second pass over the price list. Rows are grouped by
// normalized reference, then each product's variant list is replaced and its
// price mirror refreshed. A reference without a product row is a data error,
// never a fatal one.
func (imp *Importer) attachVariants(ctx context.Context, records []map[string]string, report *Report) {
	grouped := make(map[string][]models.Variant)
	order := make([]string, 0, len(records))

	for idx, record := range records {
		row, err := ParseVariantRow(record)
		if err != nil {
			report.Errored++
			applog.Error(ctx, "variant row failed", "row", idx+2, "error", err)
			continue
		}
		if _, seen := grouped[row.Reference]; !seen {
			order = append(order, row.Reference)
		}
		grouped[row.Reference] = append(grouped[row.Reference], models.Variant{
			Volume: row.Volume,
			Price:  row.Price,
			Ref:    row.Ref,
		})
	}

	for _, reference := range order {
		variants := grouped[reference]
		display := models.Parfum{Variants: variants}
		price := display.DisplayPrice(imp.opts.DisplayVolume)

		if err := imp.withRetry(ctx, func(opCtx context.Context) error {
			return imp.sink.ReplaceVariants(opCtx, reference, variants, price)
		}); err != nil {
			if errors.Is(err, ErrNotFound) {
				report.Errored++
				applog.Warn(ctx, "variants reference an unknown product", "reference", reference)
				continue
			}
			report.Errored++
			applog.Error(ctx, "variant attachment failed", "reference", reference, "error", err)
			continue
		}
		report.Variants += len(variants)
	}
}

// withRetry wraps one store operation with a per-attempt timeout and a short
// backoff. Data-shaped errors (not found, duplicates) are returned as-is and
// never retried.
func (imp *Importer) withRetry(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= imp.opts.RetryAttempts; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, imp.opts.OpTimeout)
		err := op(opCtx)
		cancel()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
			return err
		}
		lastErr = err
		if attempt == imp.opts.RetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 150 * time.Millisecond):
		}
	}
	return lastErr
}

func buildParfum(row ProductRow, familleID uint) *models.Parfum {
	return &models.Parfum{
		Reference:        row.Reference,
		Slug:             row.Slug,
		Inspiration:      row.Inspiration,
		Genre:            row.Genre,
		FamilleID:        familleID,
		NotesTete:        row.NotesTete,
		NotesCoeur:       row.NotesCoeur,
		NotesFond:        row.NotesFond,
		Price:            row.Price,
		Intensite:        row.Intensite,
		Description:      row.Description,
		APropos:          row.APropos,
		Conseils:         row.Conseils,
		ImagePlaceholder: DeterminePlaceholder(row.Famille),
	}
}
