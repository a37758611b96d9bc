// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/katalvlaran/structarray/array"
	"github.com/katalvlaran/structarray/inline"
	"github.com/katalvlaran/structarray/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cell is the element type of the demo grid.
type cell struct {
	Row, Col int64
	Serial   uint64 `structarray:"immutable"`
}

var cellAt = array.Ctor2("cell", func(r, c int64) *cell {
	return &cell{Row: r, Col: c, Serial: uint64(r)<<32 | uint64(c)}
})

type demoReport struct {
	Object  string             `json:"object" yaml:"object"`
	Model   string             `json:"model" yaml:"model"`
	Slots   uint64             `json:"slots" yaml:"slots"`
	Copy    copyReport         `json:"copy" yaml:"copy"`
	Shifted []int64            `json:"shifted_cols" yaml:"shifted_cols"`
	Guard   string             `json:"immutable_guard" yaml:"immutable_guard"`
	Metrics map[string]float64 `json:"metrics" yaml:"metrics"`
}

type copyReport struct {
	Offset   uint64 `json:"offset" yaml:"offset"`
	Count    uint64 `json:"count" yaml:"count"`
	FirstRow int64  `json:"first_row" yaml:"first_row"`
}

func newDemoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build a rows×cols grid, copy a row range and shift a row in place",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := opts.cfg.Logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			rep, err := runDemo(opts, log)
			if err != nil {
				return err
			}
			rows := []row{
				{"object", rep.Object},
				{"model", rep.Model},
				{"slots", rep.Slots},
				{"copy", fmt.Sprintf("rows [%d,+%d) first row %d", rep.Copy.Offset, rep.Copy.Count, rep.Copy.FirstRow)},
				{"shifted cols", rep.Shifted},
				{"immutable guard", rep.Guard},
			}
			names := make([]string, 0, len(rep.Metrics))
			for name := range rep.Metrics {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				rows = append(rows, row{name, rep.Metrics[name]})
			}

			return render(cmd.OutOrStdout(), opts.cfg.Output, rep, rows)
		},
	}
}

// runDemo builds the grid through an inline registry, copies a row range
// and shifts the first copied row right by one column.
func runDemo(opts *options, log *zap.Logger) (*demoReport, error) {
	d := opts.cfg.Demo
	reg := prometheus.NewRegistry()
	buildOpts := []array.Option{array.WithLogger(log), array.WithObserver(metrics.New(reg))}

	line, err := array.For[*cell](d.Cols, buildOpts...)
	if err != nil {
		return nil, err
	}
	line.SetProvider(array.NewPooledProvider(cellAt, func(ctx *array.Context, dir *array.Directive) error {
		idx := ctx.Index()
		dir.Args = append(dir.Args, int64(idx[0]), int64(idx[1]))
		return nil
	}))
	grid, err := array.NewNestedBuilder(d.Rows, line, buildOpts...)
	if err != nil {
		return nil, err
	}

	// The grid is built as the "Grid" field of a containing object.
	pending := inline.New(inline.WithLogger(log))
	key := inline.NewObjectKey()
	if _, err = pending.ConstructField(key, "Grid", grid.Model(), grid); err != nil {
		return nil, err
	}
	var built array.Container
	err = pending.Publish(key, inline.PublisherFunc(func(_ uuid.UUID, fields map[string]any) error {
		built = fields["Grid"].(array.Container)
		return nil
	}))
	if err != nil {
		return nil, err
	}

	rep := &demoReport{Object: key.String(), Model: built.Model().String()}
	rep.Copy.Offset, rep.Copy.Count = d.CopyOffset, d.CopyCount
	built.(*array.Array).Each(func(_ uint64, v any) bool {
		rep.Slots += v.(array.Container).Len()
		return true
	})

	cp, err := array.CopyRange(built, d.CopyOffset, d.CopyCount, buildOpts...)
	if err != nil {
		return nil, err
	}
	if cp.Len() > 0 {
		first, err := array.Elem[*array.Array](cp, 0)
		if err != nil {
			return nil, err
		}
		if rep.Shifted, rep.Guard, err = shiftRow(first, buildOpts); err != nil {
			return nil, err
		}
		c, err := array.Elem[*cell](first, 0)
		if err != nil {
			return nil, err
		}
		rep.Copy.FirstRow = c.Row
	}

	if rep.Metrics, err = gather(reg); err != nil {
		return nil, err
	}

	return rep, nil
}

// shiftRow moves cols [0, n-1) to [1, n) in place. The first attempt
// keeps immutable fields and is expected to be refused.
func shiftRow(r *array.Array, opts []array.Option) ([]int64, string, error) {
	n := r.Len()
	if n < 2 {
		return nil, "skipped", nil
	}
	guard := "allowed"
	err := array.ShallowCopy(r, 0, r, 1, n-1, false, opts...)
	if errors.Is(err, array.ErrImmutableFieldViolation) {
		guard = "refused without override"
	} else if err != nil {
		return nil, "", err
	}
	if err = array.ShallowCopy(r, 0, r, 1, n-1, true, opts...); err != nil {
		return nil, "", err
	}

	cols := make([]int64, 0, n)
	r.Each(func(_ uint64, v any) bool {
		cols = append(cols, v.(*cell).Col)
		return true
	})

	return cols, guard, nil
}

// gather sums every sample of every metric family by family name.
func gather(reg *prometheus.Registry) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		var sum float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
		out[mf.GetName()] = sum
	}

	return out, nil
}
