package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Wiritpol/Line-Bot-CP/internal/domain"
)

// Column headers of the scraped catalog CSV. The scraper writes Thai headers;
// the price column was renamed between scraper revisions so both are accepted.
const (
	columnName        = "ชื่อสินค้า"
	columnImage       = "รูปภาพ"
	columnPrice       = "ราคาปกติ"
	columnPriceLegacy = "ราคา"
	columnDescription = "คำอธิบาย"
	columnLink        = "ลิงก์"
)

// CSVSource loads product records from the scraped catalog file.
type CSVSource struct {
	path  string
	debug bool
}

// NewCSVSource creates a catalog source reading from the given CSV path
func NewCSVSource(path string, debug bool) *CSVSource {
	return &CSVSource{path: path, debug: debug}
}

// Load reads the catalog. A missing file yields an empty catalog, not an
// error: the bot answers with an apology instead of crashing. Rows without a
// name or image are skipped (not displayable).
func (s *CSVSource) Load(ctx context.Context) ([]domain.ProductRecord, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[CATALOG] CSV file %q not found, serving empty catalog", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // scraped rows are occasionally ragged

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	priceColumn := columnPrice
	if _, ok := columns[priceColumn]; !ok {
		priceColumn = columnPriceLegacy
	}

	var records []domain.ProductRecord
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}

		record := domain.ProductRecord{
			Name:        field(row, columns, columnName),
			ImageURL:    field(row, columns, columnImage),
			Price:       field(row, columns, priceColumn),
			Description: field(row, columns, columnDescription),
			Link:        field(row, columns, columnLink),
		}

		if record.Name == "" || record.ImageURL == "" {
			continue
		}
		records = append(records, record)
	}

	if s.debug {
		log.Printf("[CATALOG] loaded %d records from %q", len(records), s.path)
	}

	return records, nil
}

// field returns the named column of a row, or "" when the column is absent or
// the row is too short.
func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
