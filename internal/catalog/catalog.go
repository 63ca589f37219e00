// Package catalog holds the read-only set of business snapshots the
// dashboard can switch between.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"BizBoost/internal/model"
)

//go:embed businesses.yaml
var builtinData []byte

// ErrNotFound is returned when no business has the requested ID.
var ErrNotFound = errors.New("business not found")

type file struct {
	Businesses []model.BusinessState `yaml:"businesses"`
}

// Catalog is an ordered, immutable set of businesses.
type Catalog struct {
	businesses []model.BusinessState
	byID       map[string]int
}

// Builtin returns the demo businesses compiled into the binary.
func Builtin() (*Catalog, error) {
	return Parse(builtinData)
}

// Load reads a catalog file, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Businesses) == 0 {
		return nil, errors.New("catalog has no businesses")
	}

	c := &Catalog{byID: make(map[string]int, len(f.Businesses))}
	for i, b := range f.Businesses {
		b.ID = strings.TrimSpace(b.ID)
		if b.ID == "" {
			return nil, fmt.Errorf("business %d: id is required", i)
		}
		if _, dup := c.byID[b.ID]; dup {
			return nil, fmt.Errorf("business %q: duplicate id", b.ID)
		}
		for _, cat := range b.ExpenseCategories {
			if cat.Share < 0 {
				return nil, fmt.Errorf("business %q: category %q has negative share", b.ID, cat.Name)
			}
		}
		c.byID[b.ID] = len(c.businesses)
		c.businesses = append(c.businesses, b)
	}
	return c, nil
}

// List returns copies of every business, in file order.
func (c *Catalog) List() []model.BusinessState {
	out := make([]model.BusinessState, len(c.businesses))
	for i, b := range c.businesses {
		out[i] = b.Clone()
	}
	return out
}

// Get returns a copy of the business with the given ID.
func (c *Catalog) Get(id string) (model.BusinessState, error) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return model.BusinessState{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.businesses[i].Clone(), nil
}

// Default returns the first business.
func (c *Catalog) Default() model.BusinessState {
	return c.businesses[0].Clone()
}

// IDs returns the business IDs in file order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.businesses))
	for i, b := range c.businesses {
		ids[i] = b.ID
	}
	return ids
}
