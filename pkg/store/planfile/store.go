package planfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/plan"
	"github.com/rs/zerolog"
)

const Extension = ".xlsx"

// Store reads plan workbooks named <location>.xlsx from a directory.
type Store struct {
	dir    string
	loader *plan.Loader
}

func NewStore(dir string, loader *plan.Loader) *Store {
	return &Store{dir: dir, loader: loader}
}

func (s *Store) LoadPlan(ctx context.Context, location string) (*domain.PlanTable, error) {
	path, err := s.path(location)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", location, domain.ErrPlanSourceMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file %s: %w", path, err)
	}
	defer f.Close()

	table, warnings, err := s.loader.LoadWorkbook(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan file %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("location", location).
		Str("path", path).
		Int("dates", table.Dates()).
		Int("warnings", len(warnings)).
		Msg("plan loaded")
	return table, nil
}

// ListLocations returns the names of all plan workbooks, sorted.
func (s *Store) ListLocations(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan directory %s: %w", s.dir, err)
	}

	locations := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), Extension) {
			continue
		}
		locations = append(locations, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	slices.Sort(locations)
	return locations, nil
}

// SavePlan stores a workbook for location after checking that it parses.
func (s *Store) SavePlan(ctx context.Context, location string, data []byte) error {
	path, err := s.path(location)
	if err != nil {
		return err
	}
	if _, _, err := s.loader.LoadWorkbook(ctx, bytes.NewReader(data)); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plan directory %s: %w", s.dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan file %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace plan file %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Info().Str("location", location).Str("path", path).Msg("plan saved")
	return nil
}

func (s *Store) path(location string) (string, error) {
	if !ValidLocation(location) {
		return "", fmt.Errorf("invalid location name %q", location)
	}
	return filepath.Join(s.dir, location+Extension), nil
}

// ValidLocation reports whether name can be used as a plan file name.
func ValidLocation(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
