package sim

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/edsilv/ecsy"
)

// PrintStats renders w.Stats() as three colorized tables (components,
// queries, systems), highlighting component pools that are fully in use.
func PrintStats(w *ecs.World, out io.Writer) {
	stats := w.Stats()

	fmt.Fprintln(out, color.New(color.Bold).Sprint("components"))
	compTable := tablewriter.NewTable(out)
	compTable.Header([]string{"name", "live", "total", "free", "used"})
	for _, c := range stats.Components {
		used := fmt.Sprintf("%d", c.Used)
		if c.Total > 0 && c.Used == c.Total {
			used = color.New(color.FgRed).Sprint(used)
		}
		compTable.Append([]string{c.Name, fmt.Sprintf("%d", c.Live), fmt.Sprintf("%d", c.Total), fmt.Sprintf("%d", c.Free), used})
	}
	compTable.Render()

	fmt.Fprintln(out, color.New(color.Bold).Sprint("queries"))
	queryTable := tablewriter.NewTable(out)
	queryTable.Header([]string{"key", "required", "entities"})
	for _, q := range stats.Queries {
		queryTable.Append([]string{q.Key, fmt.Sprintf("%d", q.RequiredCount), fmt.Sprintf("%d", q.EntityCount)})
	}
	queryTable.Render()

	fmt.Fprintln(out, color.New(color.Bold).Sprint("systems"))
	sysTable := tablewriter.NewTable(out)
	sysTable.Header([]string{"name", "priority", "last execute", "queries"})
	for _, s := range stats.Systems {
		sysTable.Append([]string{s.Name, fmt.Sprintf("%d", s.Priority), s.ExecuteTime.String(), fmt.Sprintf("%v", s.Queries)})
	}
	sysTable.Render()

	fmt.Fprintf(out, "events: fired=%d handled=%d\n", stats.Events.Fired, stats.Events.Handled)
}
