// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/katalvlaran/structarray/internal/config"
	"gopkg.in/yaml.v3"
)

// render writes v as JSON or YAML, or rows as a table.
func render(w io.Writer, format string, v any, rows []row) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatTable:
		return writeTable(w, rows)
	default:
		return fmt.Errorf("output %q: %w", format, config.ErrInvalid)
	}
}
