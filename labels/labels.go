// SPDX-License-Identifier: MIT

// Package labels - ordered label sets and the grouping primitive.
//
// Purpose:
//   - Hold the ordered items of each account category (products, industries,
//     value added, imports, final demand, exogenous) as tuples, one
//     component per header (e.g. country, sector group, sector).
//   - Group items by a Level (a selection of header components) into
//     sorted unique keys. Every downstream row/column order derives from
//     this sort, so it must be stable across calls.
//
// Determinism:
//   - Keys are sorted lexicographically component by component.
//   - Groups are built only from keys that occur; empty groups never exist.

package labels

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/sutiot"
)

// keySep joins tuple components into map keys; it cannot occur in
// spreadsheet-sourced labels.
const keySep = "\x1f"

// Operation tags for error wrapping.
const (
	opNewSet     = "labels.NewSet"
	opParseLevel = "labels.ParseLevel"
	opGroup      = "labels.Group"
)

// Label is one item: a tuple with one component per header.
type Label []string

// String renders the tuple as "c1/c2/...".
func (l Label) String() string { return strings.Join(l, "/") }

// key is the map key of the tuple.
func (l Label) key() string { return strings.Join(l, keySep) }

// Compare orders labels component by component (shorter prefix first).
func Compare(a, b Label) int { return slices.Compare(a, b) }

// Set is an ordered sequence of labels sharing one header list.
// Items are not required to be unique.
type Set struct {
	Headers []string
	Items   []Label
}

// NewSet validates and builds a Set. Headers must be non-empty and unique;
// every item must carry exactly one component per header.
//
// Errors:
//   - sutiot.ErrConfiguration for empty/duplicate headers or short items.
func NewSet(headers []string, items ...Label) (*Set, error) {
	if err := validateHeaders(headers); err != nil {
		return nil, err
	}
	for i, it := range items {
		if len(it) != len(headers) {
			return nil, sutiot.ConfigErrorf(opNewSet, "item %d has %d components, want %d", i, len(it), len(headers))
		}
	}

	return &Set{Headers: slices.Clone(headers), Items: slices.Clone(items)}, nil
}

// validateHeaders rejects empty, blank or duplicate header names.
func validateHeaders(headers []string) error {
	if len(headers) == 0 {
		return sutiot.ConfigErrorf(opNewSet, "no headers")
	}
	seen := make(map[string]struct{}, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			return sutiot.ConfigErrorf(opNewSet, "header %d is blank", i)
		}
		if _, dup := seen[h]; dup {
			return sutiot.ConfigErrorf(opNewSet, "duplicate header %q", h)
		}
		seen[h] = struct{}{}
	}

	return nil
}

// Len returns the number of items; a nil Set has none.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.Items)
}

// Strings renders every item with Label.String.
func (s *Set) Strings() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.String()
	}

	return out
}

// Level selects the header components used as the grouping key.
// A single index is the usual aggregation level; several indices group by
// the tuple of those components, in the given order.
type Level []int

// ParseLevel resolves header names into a Level.
//
// Errors:
//   - sutiot.ErrConfiguration for an empty selection, unknown or repeated names.
func ParseLevel(headers []string, names ...string) (Level, error) {
	if len(names) == 0 {
		return nil, sutiot.ConfigErrorf(opParseLevel, "no header selected")
	}
	lv := make(Level, 0, len(names))
	for _, name := range names {
		idx := slices.Index(headers, name)
		if idx < 0 {
			return nil, sutiot.ConfigErrorf(opParseLevel, "unknown header %q (have %v)", name, headers)
		}
		if slices.Contains(lv, idx) {
			return nil, sutiot.ConfigErrorf(opParseLevel, "header %q selected twice", name)
		}
		lv = append(lv, idx)
	}

	return lv, nil
}

// Finest selects every header component, in header order: each distinct
// item becomes its own group.
func Finest(headers []string) Level {
	lv := make(Level, len(headers))
	for i := range lv {
		lv[i] = i
	}

	return lv
}

// Validate checks that every index addresses one of headers and none repeats.
func (lv Level) Validate(headers []string) error {
	if len(lv) == 0 {
		return sutiot.ConfigErrorf(opParseLevel, "empty level")
	}
	for k, idx := range lv {
		if idx < 0 || idx >= len(headers) {
			return sutiot.ConfigErrorf(opParseLevel, "level index %d out of range [0,%d)", idx, len(headers))
		}
		if slices.Contains(lv[:k], idx) {
			return sutiot.ConfigErrorf(opParseLevel, "level index %d repeated", idx)
		}
	}

	return nil
}

// Names returns the header names selected by lv. lv must be valid for headers.
func (lv Level) Names(headers []string) []string {
	out := make([]string, len(lv))
	for k, idx := range lv {
		out[k] = headers[idx]
	}

	return out
}

// project returns the components of l selected by lv.
func (lv Level) project(l Label) Label {
	out := make(Label, len(lv))
	for k, idx := range lv {
		out[k] = l[idx]
	}

	return out
}

// Grouping maps every item of a fine Set onto a sorted list of coarse keys.
//   - Keys[g] is the tuple of group g (components as selected by the Level).
//   - Of[i] is the group of fine item i.
type Grouping struct {
	Headers []string
	Keys    []Label
	Of      []int
}

// Len returns the number of groups.
func (g *Grouping) Len() int { return len(g.Keys) }

// Set returns the coarse label set described by the grouping.
func (g *Grouping) Set() *Set {
	return &Set{Headers: slices.Clone(g.Headers), Items: slices.Clone(g.Keys)}
}

// Group groups the items of s by lv.
//
// Errors:
//   - sutiot.ErrConfiguration for a nil set or an invalid level.
//
// Complexity: O(n log n) for n items.
func (s *Set) Group(lv Level) (*Grouping, error) {
	if s == nil {
		return nil, sutiot.ConfigErrorf(opGroup, "missing label set")
	}
	if err := lv.Validate(s.Headers); err != nil {
		return nil, fmt.Errorf("%s: %w", opGroup, err)
	}

	// Stage 1: collect unique projected keys.
	seen := make(map[string]struct{}, len(s.Items))
	keys := make([]Label, 0, len(s.Items))
	projected := make([]Label, len(s.Items))
	for i, it := range s.Items {
		p := lv.project(it)
		projected[i] = p
		if _, ok := seen[p.key()]; ok {
			continue
		}
		seen[p.key()] = struct{}{}
		keys = append(keys, p)
	}

	// Stage 2: sort keys; this fixes the coarse order.
	slices.SortFunc(keys, Compare)
	pos := make(map[string]int, len(keys))
	for g, k := range keys {
		pos[k.key()] = g
	}

	// Stage 3: map every fine item onto its group.
	of := make([]int, len(s.Items))
	for i, p := range projected {
		of[i] = pos[p.key()]
	}

	return &Grouping{Headers: lv.Names(s.Headers), Keys: keys, Of: of}, nil
}
