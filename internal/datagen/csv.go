package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"snowdemo/pkg/errors"
)

var securityHeader = []string{
	"SecurityID", "IssuerName", "Ticker", "AssetClass", "Sector", "Country", "Currency", "ISIN", "CUSIP",
}

// ReadSecuritiesCSV loads a cached security master. A missing file is a
// fatal error: the configured cache is the source of truth for the run.
func ReadSecuritiesCSV(path string) ([]Security, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, fmt.Sprintf("Securities CSV not found: %s", path)).
				WithContext("path", path).
				WithSuggestions("Run 'snowdemo export asset_management --csv-dir <dir>' to create it",
					"Remove asset_management.securities_csv from the config to generate securities").
				AsFatal()
		}
		return nil, errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to open securities CSV").AsFatal()
	}
	defer f.Close()

	return readSecurities(f, path)
}

func readSecurities(r io.Reader, path string) ([]Security, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(securityHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileCorrupted, "Failed to parse securities CSV").
			WithContext("path", path).
			AsFatal()
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeFileCorrupted, "Securities CSV is empty").
			WithContext("path", path).
			AsFatal()
	}
	for i, col := range securityHeader {
		if records[0][i] != col {
			return nil, errors.New(errors.ErrCodeFileCorrupted,
				fmt.Sprintf("Securities CSV column %d is %q, want %q", i+1, records[0][i], col)).
				WithContext("path", path).
				WithSuggestions("Regenerate it with 'snowdemo export asset_management --csv-dir <dir>'").
				AsFatal()
		}
	}
	if len(records) == 1 {
		return nil, errors.New(errors.ErrCodeFileCorrupted, "Securities CSV has no rows").
			WithContext("path", path).
			AsFatal()
	}

	out := make([]Security, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, Security{
			SecurityID: rec[0],
			IssuerName: rec[1],
			Ticker:     rec[2],
			AssetClass: rec[3],
			Sector:     rec[4],
			Country:    rec[5],
			Currency:   rec[6],
			ISIN:       rec[7],
			CUSIP:      rec[8],
		})
	}
	return out, nil
}

// WriteSecuritiesCSV writes the security master cache, creating parent
// directories as needed.
func WriteSecuritiesCSV(path string, securities []Security) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to create CSV directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to create securities CSV")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(securityHeader); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to write CSV header")
	}
	for _, s := range securities {
		rec := []string{s.SecurityID, s.IssuerName, s.Ticker, s.AssetClass, s.Sector, s.Country, s.Currency, s.ISIN, s.CUSIP}
		if err := w.Write(rec); err != nil {
			return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to write CSV row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to flush securities CSV")
	}
	return nil
}
