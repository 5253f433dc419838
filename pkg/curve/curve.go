// Package curve samples fitted models over a temperature range, producing the
// numbers a resistance-vs-temperature plot would draw.
package curve

import (
	"context"
	"sort"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/charlie0129/ntccal/pkg/thermistor"
)

const DefaultPoints = 200

// Range is an inclusive temperature range in °C.
type Range struct {
	MinC   float64 `json:"min"`
	MaxC   float64 `json:"max"`
	Points int     `json:"points"`
}

var DefaultRange = Range{MinC: 0, MaxC: 60, Points: DefaultPoints}

// Normalize widens an empty or inverted range to one degree and fills in the
// default point count.
func (r Range) Normalize() Range {
	if r.MaxC <= r.MinC {
		r.MaxC = r.MinC + 1
	}
	if r.Points < 2 {
		r.Points = DefaultPoints
	}
	return r
}

// Temperatures returns the evenly spaced sample temperatures, both ends included.
func (r Range) Temperatures() []float64 {
	r = r.Normalize()
	ts := make([]float64, r.Points)
	step := (r.MaxC - r.MinC) / float64(r.Points-1)
	for i := range ts {
		ts[i] = r.MinC + float64(i)*step
	}
	ts[len(ts)-1] = r.MaxC
	return ts
}

type Point struct {
	TemperatureC  float64 `json:"temperature"`
	ResistanceOhm float64 `json:"resistance"`
}

// Sample evaluates m at every temperature of r.
func Sample(m thermistor.Model, r Range) ([]Point, error) {
	ts := r.Temperatures()
	pts := make([]Point, len(ts))
	for i, t := range ts {
		res, err := m.Resistance(t)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "%s at %g °C", m.Name(), t)
		}
		pts[i] = Point{TemperatureC: t, ResistanceOhm: res}
	}
	return pts, nil
}

// Table holds one sampled curve per model name.
type Table struct {
	Range  Range              `json:"range"`
	Curves map[string][]Point `json:"curves"`
}

// Names returns the model names in the table, sorted.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.Curves))
	for n := range t.Curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Compare samples every model concurrently over the same range.
func Compare(ctx context.Context, models []thermistor.Model, r Range) (Table, error) {
	r = r.Normalize()
	t := Table{Range: r, Curves: make(map[string][]Point, len(models))}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, m := range models {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pts, err := Sample(m, r)
			if err != nil {
				return err
			}
			mu.Lock()
			t.Curves[m.Name()] = pts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Table{}, err
	}
	return t, nil
}
