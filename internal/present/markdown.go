package present

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"coinvault/internal/models"
)

func DashboardMarkdown(d models.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Total Balance %s\n\n", USD(d.Portfolio.TotalUSD))
	if d.Stale {
		fmt.Fprintf(&b, "_Prices from %s, latest refresh failed._\n\n", d.FetchedAt.UTC().Format("15:04 MST"))
	}
	b.WriteString("## Assets\n\n")
	b.WriteString("| Asset | Amount | Value | 24h |\n|---|---:|---:|---:|\n")
	for _, a := range d.Portfolio.Assets {
		fmt.Fprintf(&b, "| %s | %s %s | %s | %s |\n", a.Name, Quantity(a.Quantity), a.Symbol, USD(a.FiatUSD), Change(a.Change24h))
	}
	if len(d.Recent) > 0 {
		b.WriteString("\n## Transactions\n\n")
		writeTxTable(&b, d.Recent)
	}
	return b.String()
}

func HistoryMarkdown(title string, views []models.TransactionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(views) == 0 {
		b.WriteString("No transactions.\n")
		return b.String()
	}
	writeTxTable(&b, views)
	return b.String()
}

func writeTxTable(b *strings.Builder, views []models.TransactionView) {
	b.WriteString("| | Amount | Counterparty | Value | When |\n|---|---:|---|---:|---|\n")
	for _, v := range views {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", v.Label, v.AmountLabel, CounterpartyLabel(v.Transaction), v.FiatDisplay, v.When)
	}
}

// Render styles markdown for a terminal. style is a glamour style name such
// as "dark", "light" or "notty".
func Render(md, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
