// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sutiot/coeff"
	"github.com/katalvlaran/sutiot/iot"
	"github.com/katalvlaran/sutiot/labels"
	"github.com/katalvlaran/sutiot/matrix"
)

const opReport = "pipeline.WriteReport"

type matrixDoc struct {
	Rows []string    `yaml:"rows"`
	Cols []string    `yaml:"cols"`
	Data [][]float64 `yaml:"data,flow"`
}

type parametersDoc struct {
	RunID     string   `yaml:"run_id"`
	Database  string   `yaml:"database"`
	Country   string   `yaml:"country"`
	Year      int      `yaml:"year"`
	Layers    int      `yaml:"layers"`
	Tolerance float64  `yaml:"tolerance"`
	Analysis  Analysis `yaml:"analysis"`
	Source    string   `yaml:"source"`
	AggLevel  []string `yaml:"agg_level,flow"`
	RectLevel []string `yaml:"rect_level,flow,omitempty"`
}

type unbalanceDoc struct {
	Layer int     `yaml:"layer"`
	Row   string  `yaml:"row"`
	Gap   float64 `yaml:"gap"`
}

type balanceDoc struct {
	X          [][]float64    `yaml:"x,flow"`
	XT         [][]float64    `yaml:"xt,flow"`
	Unbalances []unbalanceDoc `yaml:"unbalances"`
	Floored    int            `yaml:"floored"`
}

type layerDoc struct {
	Layer int        `yaml:"layer"`
	Z     *matrixDoc `yaml:"z,omitempty"`
	A     *matrixDoc `yaml:"a,omitempty"`
	W     *matrixDoc `yaml:"w"`
	M     *matrixDoc `yaml:"m"`
	Y     *matrixDoc `yaml:"y"`
	X     []float64  `yaml:"x,flow,omitempty"`
}

type shockDoc struct {
	Skipped []int      `yaml:"skipped,flow,omitempty"`
	Layers  []layerDoc `yaml:"layers"`
	R       *matrixDoc `yaml:"r"`
	E       *matrixDoc `yaml:"e"`
	Delta   []layerDoc `yaml:"delta"`
	DeltaR  *matrixDoc `yaml:"delta_r"`
	DeltaE  *matrixDoc `yaml:"delta_e"`
}

type rectDoc struct {
	Layers []layerDoc `yaml:"layers"`
	B      *matrixDoc `yaml:"b"`
}

type reportDoc struct {
	Parameters parametersDoc       `yaml:"parameters"`
	Indices    map[string][]string `yaml:"indices"`
	Balance    balanceDoc          `yaml:"balance"`
	Baseline   []layerDoc          `yaml:"baseline"`
	B          *matrixDoc          `yaml:"b"`
	Shock      *shockDoc           `yaml:"shock,omitempty"`
	Rect       *rectDoc            `yaml:"rect,omitempty"`
}

// axesDoc carries the label strings used by every matrix of one table.
type axesDoc struct {
	rows, cols          []string
	vadd, imp, fd, exog []string
}

func newAxes(rows, cols *labels.Registry) axesDoc {
	return axesDoc{
		rows: labelStrings(iot.Index(rows)),
		cols: labelStrings(iot.Index(cols)),
		vadd: rows.ValueAdded.Strings(),
		imp:  rows.Imports.Strings(),
		fd:   cols.FinalDemand.Strings(),
		exog: rows.Exogenous.Strings(),
	}
}

func labelStrings(ls []labels.Label) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.String()
	}

	return out
}

func labelled(m *matrix.Dense, rows, cols []string) *matrixDoc {
	if m == nil {
		return nil
	}

	return &matrixDoc{Rows: rows, Cols: cols, Data: m.ToRows()}
}

// tableLayers renders the absolute matrices of t, with coefficients from c
// when c is not nil.
func tableLayers(t *iot.Table, c *coeff.Bundle, ax axesDoc) []layerDoc {
	out := make([]layerDoc, t.NumLayers())
	for l, lay := range t.Layers {
		out[l] = layerDoc{
			Layer: l,
			Z:     labelled(lay.Z, ax.rows, ax.cols),
			W:     labelled(lay.W, ax.vadd, ax.cols),
			M:     labelled(lay.M, ax.imp, ax.cols),
			Y:     labelled(lay.Y, ax.rows, ax.fd),
		}
		if c != nil {
			out[l].A = labelled(c.Layers[l].A, ax.rows, ax.cols)
		}
	}

	return out
}

// WriteReport writes res to w as a YAML document with labelled matrices.
func WriteReport(w io.Writer, res *Result) error {
	if res == nil || res.Indices.Aggregated == nil || res.Matrices.IOT0 == nil {
		return fmt.Errorf("%s: incomplete result", opReport)
	}
	p := res.Parameters
	doc := reportDoc{
		Parameters: parametersDoc{
			RunID:     p.RunID.String(),
			Database:  p.Database,
			Country:   p.Country,
			Year:      p.Year,
			Layers:    p.Layers,
			Tolerance: p.Tolerance,
			Analysis:  p.Analysis,
			Source:    p.Source.String(),
			AggLevel:  p.AggLevel,
			RectLevel: p.RectLevel,
		},
		Indices: make(map[string][]string, len(labels.Categories)),
	}
	agg := res.Indices.Aggregated
	for _, c := range labels.Categories {
		doc.Indices[c.String()] = agg.Set(c).Strings()
	}
	ax := newAxes(agg, agg)

	if rep := res.Balance; rep != nil {
		doc.Balance = balanceDoc{X: rep.X, XT: rep.XT, Floored: len(rep.Floored)}
		for _, u := range rep.Unbalances {
			doc.Balance.Unbalances = append(doc.Balance.Unbalances, unbalanceDoc{Layer: u.Layer, Row: ax.rows[u.Row], Gap: u.Gap})
		}
	}
	doc.Baseline = tableLayers(res.Matrices.IOT0, res.Coefficients.Baseline, ax)
	if res.Coefficients.Baseline != nil {
		doc.B = labelled(res.Coefficients.Baseline.B, ax.exog, ax.cols)
	}

	if sr := res.Shock; sr != nil {
		sd := &shockDoc{
			Skipped: sr.Skipped,
			Layers:  tableLayers(sr.Table, sr.Coefficients, ax),
			R:       labelled(sr.R, ax.exog, ax.cols),
			E:       labelled(sr.E, ax.exog, ax.cols),
		}
		for l := range sd.Layers {
			sd.Layers[l].X = sr.X[l]
		}
		if d := res.Delta; d != nil {
			sd.Delta = make([]layerDoc, len(d.Layers))
			for l, dl := range d.Layers {
				sd.Delta[l] = layerDoc{
					Layer: l,
					Z:     labelled(dl.Z, ax.rows, ax.cols),
					W:     labelled(dl.W, ax.vadd, ax.cols),
					M:     labelled(dl.M, ax.imp, ax.cols),
					Y:     labelled(dl.Y, ax.rows, ax.fd),
					X:     dl.X,
				}
			}
			sd.DeltaR = labelled(d.R, ax.exog, ax.cols)
			sd.DeltaE = labelled(d.E, ax.exog, ax.cols)
		}
		doc.Shock = sd
	}

	if res.Matrices.Rect != nil && res.Indices.RectRows != nil {
		rax := newAxes(res.Indices.RectRows, res.Indices.RectCols)
		doc.Rect = &rectDoc{
			Layers: tableLayers(res.Matrices.Rect, res.Coefficients.Rect, rax),
		}
		if res.Coefficients.Rect != nil {
			doc.Rect.B = labelled(res.Coefficients.Rect.B, rax.exog, rax.cols)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("%s: %w", opReport, err)
	}

	return enc.Close()
}
