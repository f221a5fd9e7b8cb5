// Package renderer turns portfolio snapshots and receipts into markdown and
// plain text tables.
//
// Markdown documents are assembled from the embedded templates: an assembly
// template (e.g. dashboard.md) includes its partials (dashboard_*.md).
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/moneymarket"
)

//go:embed *.md
var templates embed.FS

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// DashboardOptions holds configuration for rendering a dashboard.
type DashboardOptions struct {
	SkipPositions bool // Do not render the positions section.
	SkipMarkets   bool // Do not render the markets section.
}

// RenderDashboard renders the Dashboard struct to a markdown string.
func RenderDashboard(d *Dashboard, opts DashboardOptions) string {
	partials := map[string]string{
		"dashboard_metrics":   "dashboard_metrics.md",
		"dashboard_positions": "dashboard_positions.md",
		"dashboard_markets":   "dashboard_markets.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipPositions {
		partials["dashboard_positions"] = ""
	}
	if opts.SkipMarkets {
		partials["dashboard_markets"] = ""
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// DashboardMarkdown renders the full dashboard of a snapshot.
func DashboardMarkdown(s moneymarket.Snapshot, network string) string {
	return RenderDashboard(NewDashboard(s, network), DashboardOptions{})
}

// RenderReceipt renders a single receipt to a markdown string.
func RenderReceipt(r *Receipt) string {
	return renderTemplate("receipt", "receipt.md", nil, r)
}

// ReceiptMarkdown renders the confirmation of an applied action.
func ReceiptMarkdown(r moneymarket.Receipt) string {
	return RenderReceipt(NewReceipt(r))
}

// RenderReceipts renders the session history to a markdown string.
func RenderReceipts(rs []*Receipt) string {
	return renderTemplate("receipts", "receipts.md", nil, rs)
}

// ReceiptsMarkdown renders the history of a session, oldest first.
func ReceiptsMarkdown(rs []moneymarket.Receipt) string {
	list := make([]*Receipt, 0, len(rs))
	for _, r := range rs {
		list = append(list, NewReceipt(r))
	}
	return RenderReceipts(list)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
