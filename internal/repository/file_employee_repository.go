package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

// NewFileEmployeeRepository loads the record set from a JSON file, creating an
// empty one when missing, and rewrites the whole file after every committed
// mutation.
func NewFileEmployeeRepository(path string) (*MemoryEmployeeRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	repo := NewMemoryEmployeeRepository(records...)
	repo.flush = func(ctx context.Context, records []domain.Employee) error {
		return writeRecords(path, records)
	}
	repo.ping = func(ctx context.Context) error {
		_, err := os.Stat(path)
		return err
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := writeRecords(path, records); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func readRecords(path string) ([]domain.Employee, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Employee{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(content) == 0 {
		return []domain.Employee{}, nil
	}

	var records []domain.Employee
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i := range records {
		records[i].ReportingManagerID = domain.NormalizeManagerID(records[i].ReportingManagerID)
	}
	return records, nil
}

// writeRecords replaces the file atomically via a temp file in the same directory.
func writeRecords(path string, records []domain.Employee) error {
	if records == nil {
		records = []domain.Employee{}
	}
	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
