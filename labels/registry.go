// SPDX-License-Identifier: MIT

package labels

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/sutiot"
)

const opRegistry = "labels.Registry"

// Category names one account dimension of the tables.
type Category int

// Account categories, in the order used by reports.
const (
	Products Category = iota
	Industries
	ValueAdded
	Imports
	FinalDemand
	Exogenous
)

// numCategories sizes per-category arrays.
const numCategories = 6

// Categories lists every category in report order.
var Categories = []Category{Products, Industries, ValueAdded, Imports, FinalDemand, Exogenous}

// String implements fmt.Stringer with the short names used in artifacts.
func (c Category) String() string {
	switch c {
	case Products:
		return "prod"
	case Industries:
		return "ind"
	case ValueAdded:
		return "vadd"
	case Imports:
		return "imp"
	case FinalDemand:
		return "fd"
	case Exogenous:
		return "exog"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ParseCategory is the inverse of Category.String.
//
// Errors:
//   - sutiot.ErrConfiguration for an unknown name.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if c.String() == name {
			return c, nil
		}
	}

	return 0, sutiot.ConfigErrorf(opRegistry, "unknown label category %q", name)
}

// required reports whether the category must hold at least one item.
// Value added, imports and satellite accounts may legitimately be absent.
func (c Category) required() bool {
	return c == Products || c == Industries || c == FinalDemand
}

// Registry holds the named label sets of one aggregation level.
// All sets share Headers. A Registry is immutable once validated.
type Registry struct {
	Headers     []string
	Products    *Set
	Industries  *Set
	ValueAdded  *Set
	Imports     *Set
	FinalDemand *Set
	Exogenous   *Set
}

// Set returns the label set of category c.
func (r *Registry) Set(c Category) *Set {
	switch c {
	case Products:
		return r.Products
	case Industries:
		return r.Industries
	case ValueAdded:
		return r.ValueAdded
	case Imports:
		return r.Imports
	case FinalDemand:
		return r.FinalDemand
	case Exogenous:
		return r.Exogenous
	default:
		return nil
	}
}

// setCategory stores s under c.
func (r *Registry) setCategory(c Category, s *Set) {
	switch c {
	case Products:
		r.Products = s
	case Industries:
		r.Industries = s
	case ValueAdded:
		r.ValueAdded = s
	case Imports:
		r.Imports = s
	case FinalDemand:
		r.FinalDemand = s
	case Exogenous:
		r.Exogenous = s
	}
}

// Validate checks presence of every set and header agreement.
//
// Errors:
//   - sutiot.ErrConfiguration for a missing set, an empty required set,
//     or a set whose headers differ from the registry's.
func (r *Registry) Validate() error {
	if r == nil {
		return sutiot.ConfigErrorf(opRegistry, "nil registry")
	}
	if err := validateHeaders(r.Headers); err != nil {
		return fmt.Errorf("%s: %w", opRegistry, err)
	}
	for _, c := range Categories {
		s := r.Set(c)
		if s == nil {
			return sutiot.ConfigErrorf(opRegistry, "missing %s label set", c)
		}
		if c.required() && s.Len() == 0 {
			return sutiot.ConfigErrorf(opRegistry, "empty %s label set", c)
		}
		if !slices.Equal(s.Headers, r.Headers) {
			return sutiot.ConfigErrorf(opRegistry, "%s headers %v differ from %v", c, s.Headers, r.Headers)
		}
		for i, it := range s.Items {
			if len(it) != len(r.Headers) {
				return sutiot.ConfigErrorf(opRegistry, "%s item %d has %d components, want %d", c, i, len(it), len(r.Headers))
			}
		}
	}

	return nil
}

// Counts is the per-category item count, the shape vocabulary of bundles.
type Counts struct {
	Products, Industries, ValueAdded, Imports, FinalDemand, Exogenous int
}

// Counts returns the item count of every category.
func (r *Registry) Counts() Counts {
	return Counts{
		Products:    r.Products.Len(),
		Industries:  r.Industries.Len(),
		ValueAdded:  r.ValueAdded.Len(),
		Imports:     r.Imports.Len(),
		FinalDemand: r.FinalDemand.Len(),
		Exogenous:   r.Exogenous.Len(),
	}
}

// Groupings holds one Grouping per category for a single Level.
type Groupings struct {
	Level Level
	byCat [numCategories]*Grouping
}

// Of returns the grouping of category c.
func (g *Groupings) Of(c Category) *Grouping { return g.byCat[c] }

// Registry returns the coarse registry described by the groupings.
func (g *Groupings) Registry() *Registry {
	var out Registry
	for _, c := range Categories {
		gr := g.byCat[c]
		out.setCategory(c, gr.Set())
		out.Headers = slices.Clone(gr.Headers)
	}

	return &out
}

// Group groups every category of r by lv.
//
// Errors:
//   - sutiot.ErrConfiguration from Validate or an invalid level.
func (r *Registry) Group(lv Level) (*Groupings, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := lv.Validate(r.Headers); err != nil {
		return nil, fmt.Errorf("%s: %w", opRegistry, err)
	}
	out := &Groupings{Level: slices.Clone(lv)}
	for _, c := range Categories {
		gr, err := r.Set(c).Group(lv)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", opRegistry, c, err)
		}
		out.byCat[c] = gr
	}

	return out, nil
}

// Aggregate is Group followed by Registry: the coarse label sets at lv.
func (r *Registry) Aggregate(lv Level) (*Registry, error) {
	g, err := r.Group(lv)
	if err != nil {
		return nil, err
	}

	return g.Registry(), nil
}

// NewRegistry builds and validates a registry from per-category items.
// A category absent from items gets an empty set.
//
// Errors:
//   - sutiot.ErrConfiguration from NewSet or Validate.
func NewRegistry(headers []string, items map[Category][]Label) (*Registry, error) {
	r := &Registry{Headers: slices.Clone(headers)}
	for _, c := range Categories {
		s, err := NewSet(headers, items[c]...)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", opRegistry, c, err)
		}
		r.setCategory(c, s)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}
