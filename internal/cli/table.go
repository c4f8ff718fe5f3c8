package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vertcut/vertcut/internal/types"
)

func renderManifestTable(w io.Writer, m types.Manifest) {
	if len(m.Clips) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Title", "Start", "End", "Short"})
	for _, c := range m.Clips {
		t.AppendRow(table.Row{
			c.ID,
			c.Title,
			fmt.Sprintf("%.1fs", c.StartSec),
			fmt.Sprintf("%.1fs", c.EndSec),
			c.Short,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
