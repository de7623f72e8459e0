package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/allocator"
)

var printer = message.NewPrinter(language.English)

// Renderer draws terminal tables styled for one destination. Color and bold
// escapes are only emitted when that destination is a terminal.
type Renderer struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

// NewRenderer returns a Renderer whose styles detect capabilities of w.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		title:  r.NewStyle().Bold(true),
		header: r.NewStyle().Bold(true).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		border: r.NewStyle(),
	}
}

// RenderStrategy renders the block table and fragmentation summary of one run.
func (r *Renderer) RenderStrategy(result allocator.StrategyResult) string {
	rows := BlockRows(result)
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, row.Cells())
	}

	var b strings.Builder
	b.WriteString(r.title.Render("=== " + result.Strategy.String() + " ==="))
	b.WriteString("\n")
	b.WriteString(r.renderTable(BlockHeaders, cells))
	b.WriteString("\n\nFragmentation Summary\n")
	b.WriteString(Summary(result))
	return b.String()
}

// Summary lists the aggregate metrics of one run, one per line.
func Summary(result allocator.StrategyResult) string {
	unallocated := "None"
	if ids := result.UnallocatedProcesses(); len(ids) > 0 {
		unallocated = strings.Join(ids, ", ")
	}

	lines := []string{
		printer.Sprintf("Allocated Processes: %d/%d", result.AllocatedCount, result.ProcessCount()),
		printer.Sprintf("Total Internal Fragmentation: %d KB", result.TotalInternalFragment),
		printer.Sprintf("Total Free Memory: %d KB", result.TotalFree),
		printer.Sprintf("Largest Free Block: %d KB", result.LargestFree),
		printer.Sprintf("External Fragmentation: %d KB", result.ExternalFragment),
		printer.Sprintf("Error: %.2f%%", ErrorPercentage(result, result.TotalMemory())),
		"Unallocated Processes: " + unallocated,
	}
	return strings.Join(lines, "\n")
}

// RenderComparison renders the cross-strategy comparison table.
func (r *Renderer) RenderComparison(rows []ComparisonRow) string {
	headers := append(append([]string{}, ComparisonHeaders...), "Error %", "Unallocated %")
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, append(row.Cells(),
			printer.Sprintf("%.2f", row.ErrorPercent),
			printer.Sprintf("%.2f", row.UnallocatedPercent),
		))
	}

	return r.title.Render("=== Final Comparison ===") + "\n" + r.renderTable(headers, cells)
}

func (r *Renderer) renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.cell
		})
	return t.Render()
}
