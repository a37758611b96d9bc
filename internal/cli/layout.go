// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"

	"github.com/katalvlaran/structarray/storage"
	"github.com/spf13/cobra"
)

// layoutReport is the machine-readable output of `layout`.
type layoutReport struct {
	Geometry struct {
		WordMax     uint64 `json:"word_max" yaml:"word_max"`
		SegmentSize uint64 `json:"segment_size" yaml:"segment_size"`
	} `json:"geometry" yaml:"geometry"`
	Layout    storage.Layout   `json:"layout" yaml:"layout"`
	Segments  uint64           `json:"segments" yaml:"segments"`
	Locations []locationReport `json:"locations,omitempty" yaml:"locations,omitempty"`
}

type locationReport struct {
	Index    uint64           `json:"index" yaml:"index"`
	Location storage.Location `json:"location" yaml:"location"`
}

func newLayoutCommand(opts *options) *cobra.Command {
	var (
		length  uint64
		indices []uint
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the partition layout of a container length",
		Example: `  structarray layout --length 3221225476
  structarray layout --length 30 --index 7,8,29 -o yaml   # with word_max: 8, segment_shift: 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := opts.cfg.Layout(length)
			rep := layoutReport{Layout: l, Segments: l.Segments()}
			rep.Geometry.WordMax = l.WordMax()
			rep.Geometry.SegmentSize = l.SegmentSize()

			rows := []row{
				{"length", l.Length},
				{"word max", l.WordMax()},
				{"segment size", l.SegmentSize()},
				{"primary", l.PrimaryLength},
				{"extra", l.ExtraLength},
				{"full segments", l.FullSegments},
				{"last segment", l.LastSegmentSize},
			}
			for _, ix := range indices {
				i := uint64(ix)
				loc, err := l.Locate(i)
				if err != nil {
					return err
				}
				rep.Locations = append(rep.Locations, locationReport{Index: i, Location: loc})
				rows = append(rows, row{fmt.Sprintf("index %d", i), describe(loc)})
			}

			return render(cmd.OutOrStdout(), opts.cfg.Output, rep, rows)
		},
	}
	cmd.Flags().Uint64Var(&length, "length", 0, "container length")
	cmd.Flags().UintSliceVar(&indices, "index", nil, "indices to locate")
	_ = cmd.MarkFlagRequired("length")

	return cmd
}

func describe(loc storage.Location) string {
	if loc.Primary() {
		return fmt.Sprintf("primary[%d]", loc.Offset)
	}
	return fmt.Sprintf("segment %d [%d]", loc.Segment, loc.Offset)
}
