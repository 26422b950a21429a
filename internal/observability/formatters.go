// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mbaxter/reeltaste/internal/letterboxd"
	"github.com/mbaxter/reeltaste/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxAlternatesToShow is the default number of alternates to display
	maxAlternatesToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecommendation outputs the top pick, the alternates, and the request
// diagnostics.
func (p *Printer) PrintRecommendation(rec *types.Recommendation) {
	if rec == nil || rec.TopPick == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)\n", rec.TopPick.Metadata.Title, year(rec.TopPick.Metadata.ReleaseDate)))
	sb.WriteString(fmt.Sprintf("Score: %.3f\n", rec.TopPick.Score))
	if len(rec.TopPick.Providers) > 0 {
		providers := strings.Join(rec.TopPick.Providers, ", ")
		if len(providers) > 45 {
			providers = providers[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Watch on: %s\n", providers))
	} else {
		sb.WriteString("Watch on: (no providers found)\n")
	}
	p.printBox("TOP PICK", strings.TrimSuffix(sb.String(), "\n"))

	if len(rec.Alternates) > 0 {
		sb.Reset()
		count := min(len(rec.Alternates), maxAlternatesToShow)
		for i := 0; i < count; i++ {
			alt := rec.Alternates[i]
			sb.WriteString(fmt.Sprintf("#%d  %s (%s)\n", i+1, alt.Metadata.Title, year(alt.Metadata.ReleaseDate)))
			sb.WriteString(fmt.Sprintf("    Score: %.3f\n", alt.Score))
			if i < count-1 {
				sb.WriteString("\n")
			}
		}
		if len(rec.Alternates) > maxAlternatesToShow {
			sb.WriteString(fmt.Sprintf("\n... and %d more", len(rec.Alternates)-maxAlternatesToShow))
		}
		p.printBox("ALTERNATES", sb.String())
	}

	sb.Reset()
	d := rec.Diagnostics
	sb.WriteString(fmt.Sprintf("Request:  %s\n", d.RequestID))
	sb.WriteString(fmt.Sprintf("Mode:     %s\n", d.Mode))
	sb.WriteString(fmt.Sprintf("Listings: %d rated (%d liked), %d diary, %d saved\n",
		d.Sources.Ratings, d.Sources.Liked, d.Sources.Diary, d.Sources.Watchlist))
	sb.WriteString(fmt.Sprintf("Taste:    %d seeds from %s\n", d.SeedCount, d.SeedSource))
	sb.WriteString(fmt.Sprintf("Pool:     %d candidates from %s\n", d.PoolSize, d.PoolSource))
	sb.WriteString(fmt.Sprintf("Elapsed:  %dms", d.ElapsedMS))
	p.printBox("DIAGNOSTICS", sb.String())
}

// PrintReport outputs the listing visibility report with a short
// interpretation of what each outcome usually means.
func (p *Printer) PrintReport(report *letterboxd.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User: %s\n\n", report.Username))
	writeProbeLines(&sb, "Ratings", report.Ratings)
	writeProbeLines(&sb, "Diary", report.Diary)
	writeProbeLines(&sb, "Watchlist", report.Watchlist)
	writeProbeLines(&sb, "Feed", []letterboxd.PageReport{report.Feed})
	p.printBox("LISTING VISIBILITY", strings.TrimSuffix(sb.String(), "\n"))

	sb.Reset()
	for _, hint := range interpret(report) {
		sb.WriteString(fmt.Sprintf("• %s\n", hint))
	}
	p.printBox("INTERPRETATION", strings.TrimSuffix(sb.String(), "\n"))
}

func writeProbeLines(sb *strings.Builder, label string, pages []letterboxd.PageReport) {
	for i, page := range pages {
		name := label
		if len(pages) > 1 {
			name = fmt.Sprintf("%s p%d", label, i+1)
		}
		switch {
		case !page.OK:
			sb.WriteString(fmt.Sprintf("%-12s ✗ %s\n", name, page.Error))
		case page.Items == 0:
			sb.WriteString(fmt.Sprintf("%-12s ✓ reachable, 0 items\n", name))
		default:
			sb.WriteString(fmt.Sprintf("%-12s ✓ %d items\n", name, page.Items))
		}
	}
}

// interpret turns probe outcomes into hints about the usual cause.
func interpret(report *letterboxd.Report) []string {
	hints := []string{}

	fetched := 0
	items := 0
	for _, page := range append(append(append([]letterboxd.PageReport{report.Feed}, report.Ratings...), report.Diary...), report.Watchlist...) {
		if page.OK {
			fetched++
			items += page.Items
		}
	}

	switch {
	case fetched == 0:
		hints = append(hints, "No page answered: the site may be blocking")
		hints = append(hints, "this client. Try the browser fetch tier or")
		hints = append(hints, "a mirror base URL.")
	case items == 0:
		hints = append(hints, "Pages answered but exposed no items: the account is")
		hints = append(hints, "likely private, empty, or the username is misspelled.")
	default:
		hints = append(hints, "Listings are visible; recommendations should work.")
	}

	if !report.Feed.OK && items > 0 {
		hints = append(hints, "Feed unreachable: diary falls back to markup pages.")
	}
	return hints
}

func year(releaseDate string) string {
	if len(releaseDate) >= 4 {
		return releaseDate[:4]
	}
	return "?"
}
