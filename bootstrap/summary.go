package bootstrap

import (
	"context"
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary renders one table row per registered component with its
// description and live health.
func (a *App[C]) WriteSummary(ctx context.Context, w io.Writer) error {
	health := make(map[string]string)
	for _, h := range a.Components.HealthAll(ctx) {
		status := string(h.Status)
		if h.Message != "" {
			status += ": " + h.Message
		}
		health[h.Name] = status
	}

	table := tablewriter.NewWriter(w)
	table.Header("Component", "Type", "Details", "Health")
	for _, d := range a.Components.Describe() {
		if err := table.Append([]string{d.Name, d.Type, d.Details, health[d.Name]}); err != nil {
			return err
		}
	}
	return table.Render()
}
