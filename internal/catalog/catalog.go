// Package catalog holds the default destination catalog and reads catalog
// files in the same YAML format.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wayfarer-travel/backend/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type file struct {
	Destinations []entry `yaml:"destinations"`
}

type entry struct {
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	Image        string          `yaml:"image"`
	Category     string          `yaml:"category"`
	Price        float64         `yaml:"price"`
	Duration     string          `yaml:"duration"`
	Location     domain.Location `yaml:"location"`
	Rating       float64         `yaml:"rating"`
	TotalReviews int             `yaml:"total_reviews"`
	Highlights   []string        `yaml:"highlights"`
	Includes     []string        `yaml:"includes"`
}

// Default returns the embedded catalog.
func Default() []domain.Destination {
	ds, err := Decode(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic("catalog: embedded catalog is invalid: " + err.Error())
	}
	return ds
}

// Load reads a catalog file from path.
func Load(path string) ([]domain.Destination, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %s: %w", path, err)
	}
	return ds, nil
}

// Decode parses a catalog document. Unknown keys are rejected so a typo in a
// field name does not silently drop data. IDs and timestamps are left zero;
// the store assigns them.
func Decode(r io.Reader) ([]domain.Destination, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc file
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make([]domain.Destination, 0, len(doc.Destinations))
	seen := make(map[string]bool, len(doc.Destinations))
	for i, e := range doc.Destinations {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("%w: destination %d: %w", domain.ErrValidation, i, err)
		}
		key := domain.Fold(e.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: destination %d: duplicate name %q", domain.ErrValidation, i, e.Name)
		}
		seen[key] = true
		out = append(out, e.destination())
	}
	return out, nil
}

func (e entry) validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return errors.New("name is required")
	case e.Price < 0:
		return fmt.Errorf("%s: price must not be negative", e.Name)
	case e.Rating < 0 || e.Rating > 5:
		return fmt.Errorf("%s: rating must be between 0 and 5", e.Name)
	case e.TotalReviews < 0:
		return fmt.Errorf("%s: total_reviews must not be negative", e.Name)
	case e.TotalReviews == 0 && e.Rating != 0:
		return fmt.Errorf("%s: rating without reviews", e.Name)
	}
	return nil
}

func (e entry) destination() domain.Destination {
	return domain.Destination{
		Name:         strings.TrimSpace(e.Name),
		Description:  strings.TrimSpace(e.Description),
		Image:        e.Image,
		Category:     e.Category,
		Price:        e.Price,
		Duration:     e.Duration,
		Location:     e.Location,
		Rating:       e.Rating,
		TotalReviews: e.TotalReviews,
		Highlights:   nonNil(e.Highlights),
		Includes:     nonNil(e.Includes),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
