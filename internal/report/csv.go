package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bifacial-sweep/internal/model"

	"github.com/gocarina/gocsv"
)

// WriteResultsCSV writes one row per tilt, creating the parent directory.
func WriteResultsCSV(path string, results []model.TiltResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&results, f)
}

// MarshalResultsCSV writes the same CSV to w.
func MarshalResultsCSV(w io.Writer, results []model.TiltResult) error {
	return gocsv.Marshal(&results, w)
}

// ReadResultsCSV loads results written by WriteResultsCSV.
func ReadResultsCSV(path string) ([]model.TiltResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var results []model.TiltResult
	if err := gocsv.UnmarshalFile(f, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results csv: %w", err)
	}
	return results, nil
}
