package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// headerAliases maps canonical column names to the corrupted spellings seen
// in older spreadsheet exports, where UTF-8 accents were re-encoded through
// Latin-1 on the way out.
var headerAliases = map[string][]string{
	"Référence":     {"RÃ©fÃ©rence", "Reference"},
	"Intensité":     {"IntensitÃ©", "Intensite"},
	"Notes de tête": {"Notes de tÃªte", "Notes de tete"},
	"Notes de cœur": {"Notes de cÅ“ur", "Notes de coeur"},
	"À propos":      {"Ã€ propos", "A propos"},
	"Réf":           {"RÃ©f", "Ref"},
}

// column reads a value from a raw record by canonical header name, falling
// back to the known mis-encoded spellings when the canonical column is absent.
func column(record map[string]string, name string) string {
	if value, ok := record[name]; ok && value != "" {
		return value
	}
	for _, alias := range headerAliases[name] {
		if value, ok := record[alias]; ok && value != "" {
			return value
		}
	}
	return ""
}

// ReadRows loads a CSV export into header-keyed records. When the primary
// path does not exist the fallback path is tried; a run cannot proceed
// without one of the two.
func ReadRows(primary, fallback string) ([]map[string]string, error) {
	path := primary
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("locate csv: %w", err)
		}
		if fallback == "" {
			return nil, fmt.Errorf("locate csv: %w", err)
		}
		path = fallback
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("locate csv (primary %q, fallback %q): %w", primary, fallback, err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %q: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("csv %q is empty", path)
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		empty := true
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[idx])
			if value != "" {
				empty = false
			}
			record[strings.TrimSpace(key)] = value
		}
		if empty {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
