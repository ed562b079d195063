package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmptyCatalog is returned when a source yields no options.
var ErrEmptyCatalog = errors.New("catalog has no packaging options")

// Option is one packaging type from the input table. Options are immutable
// once loaded.
type Option struct {
	Name                string  `json:"name"`
	Cost                float64 `json:"cost"`
	Durability          float64 `json:"durability"`
	EnvironmentalImpact float64 `json:"environmental_impact"`
	Reusability         float64 `json:"reusability"`
}

// Source loads the option table. It is called once at startup.
type Source interface {
	Load(ctx context.Context) ([]Option, error)
}

// Catalog is the loaded, validated option set in table order.
type Catalog struct {
	options []Option
}

// Load reads all options from src and validates them.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	opts, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(opts)
}

// New validates opts and returns a Catalog holding a private copy.
func New(opts []Option) (*Catalog, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}
	cp := make([]Option, len(opts))
	copy(cp, opts)
	return &Catalog{options: cp}, nil
}

// Options returns a copy of the options in table order.
func (c *Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

// Len returns the number of options.
func (c *Catalog) Len() int { return len(c.options) }

// Validate checks that opts is non-empty, names are present and unique, all
// values are finite and cost is non-negative.
func Validate(opts []Option) error {
	if len(opts) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]int, len(opts))
	for i, o := range opts {
		row := i + 1
		name := strings.TrimSpace(o.Name)
		if name == "" {
			return fmt.Errorf("row %d: empty packaging name", row)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("row %d: duplicate packaging name %q (first seen in row %d)", row, name, prev)
		}
		seen[name] = row

		for _, f := range []struct {
			col string
			v   float64
		}{
			{"cost", o.Cost},
			{"durability", o.Durability},
			{"environmental_impact", o.EnvironmentalImpact},
			{"reusability", o.Reusability},
		} {
			if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
				return fmt.Errorf("row %d (%s): %s is not a finite number", row, name, f.col)
			}
		}
		if o.Cost < 0 {
			return fmt.Errorf("row %d (%s): negative cost %g", row, name, o.Cost)
		}
	}
	return nil
}
