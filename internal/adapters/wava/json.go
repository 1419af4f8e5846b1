package wava

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/agegrade/internal/domain/standards"
)

// WriteJSON encodes the table as indented JSON.
func WriteJSON(w io.Writer, table standards.Gendered) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(table); err != nil {
		return fmt.Errorf("encode standards table: %w", err)
	}
	return nil
}

// ReadJSON decodes and validates a table written by WriteJSON.
func ReadJSON(r io.Reader) (standards.Gendered, error) {
	var table standards.Gendered
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&table); err != nil {
		return standards.Gendered{}, fmt.Errorf("%w: decode: %v", ErrInvalidTable, err)
	}
	if err := table.Validate(); err != nil {
		return standards.Gendered{}, err
	}
	return table, nil
}

// LoadFile reads the table stored at path.
func LoadFile(path string) (standards.Gendered, error) {
	f, err := os.Open(path)
	if err != nil {
		return standards.Gendered{}, fmt.Errorf("open standards table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadJSON(f)
}

// SaveFile writes the table to path, creating parent directories. The file
// is written to a temporary name first and renamed into place.
func SaveFile(path string, table standards.Gendered) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create table directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".standards-*.json")
	if err != nil {
		return fmt.Errorf("create table file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := WriteJSON(tmp, table); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close table file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move table file: %w", err)
	}
	return nil
}
