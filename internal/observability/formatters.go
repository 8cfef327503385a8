// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/AnshKr2004/google-map-automation/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

var (
	okStyle   = color.New(color.FgGreen, color.OpBold)
	missStyle = color.New(color.FgYellow)
	failStyle = color.New(color.FgRed, color.OpBold)
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

// StatusLabel returns a colored one-word status for an enrichment result.
func StatusLabel(result types.EnrichmentResult) string {
	switch {
	case result.Success:
		return okStyle.Render("FOUND")
	case result.Error != "":
		return failStyle.Render("FAILED")
	default:
		return missStyle.Render("NOT FOUND")
	}
}

// PrintEnrichment outputs an enrichment result with its winning emails.
//
//nolint:errcheck
func (p *Printer) PrintEnrichment(url string, result types.EnrichmentResult) {
	fmt.Fprintf(p.out, "%s %s\n", StatusLabel(result), url)

	var sb strings.Builder
	if result.Success {
		sb.WriteString(fmt.Sprintf("Method:     %s\n", result.Method))
		sb.WriteString(fmt.Sprintf("Provenance: %s\n", result.Provenance))
		if result.Proxy != "" {
			sb.WriteString(fmt.Sprintf("Relay:      %s\n", result.Proxy))
		}
		if result.Confidence != "" {
			sb.WriteString(fmt.Sprintf("Confidence: %s\n", result.Confidence))
		}
		sb.WriteString("\nEmails:\n")
		writeList(&sb, result.Emails, maxItemsToShow)
	} else if result.Error != "" {
		sb.WriteString(fmt.Sprintf("Error: %s", result.Error))
	} else {
		sb.WriteString(result.Message)
	}

	p.printBox("ENRICHMENT RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs the ranked candidate emails from page content.
func (p *Printer) PrintCandidates(emails []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates: %d\n", len(emails)))
	if len(emails) > 0 {
		sb.WriteString("\n")
		for i, e := range emails {
			sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, e))
		}
	}
	p.printBox("EXTRACTED EMAILS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintContactAnalysis outputs a contact analysis response.
func (p *Printer) PrintContactAnalysis(resp types.AnalysisResponse) {
	var sb strings.Builder
	if !resp.Success {
		sb.WriteString(fmt.Sprintf("Error: %s", resp.Error))
		p.printBox("CONTACT ANALYSIS", sb.String())
		return
	}

	if resp.Model != "" {
		sb.WriteString(fmt.Sprintf("Model: %s\n", resp.Model))
	}
	if resp.Usage != nil {
		sb.WriteString(fmt.Sprintf("Tokens: %d (prompt %d, completion %d)\n",
			resp.Usage.TotalTokens, resp.Usage.PromptTokens, resp.Usage.CompletionTokens))
	}

	if data := resp.Data; data != nil {
		if data.Confidence != "" {
			sb.WriteString(fmt.Sprintf("Confidence: %s\n", data.Confidence))
		}
		sections := []struct {
			title  string
			values []string
		}{
			{"Emails", data.Emails},
			{"Phones", data.Phones},
			{"Social media", data.SocialMedia},
			{"Other contacts", data.AdditionalContacts},
			{"Suggestions", data.Suggestions},
		}
		for _, s := range sections {
			if len(s.values) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("\n%s:\n", s.title))
			writeList(&sb, s.values, maxItemsToShow)
		}
	}

	p.printBox("CONTACT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintListings renders stored listings as a table.
func (p *Printer) PrintListings(listings []types.Listing) {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"Name", "Address", "Phone", "Website", "Email", "Rating"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, l := range listings {
		email := l.Email
		if n := len(l.AdditionalEmails); n > 0 {
			email = fmt.Sprintf("%s (+%d)", email, n)
		}
		table.Append([]string{l.Name, l.Address, l.Phone, l.Website, email, l.Rating})
	}
	table.Render()

	withEmail := 0
	for _, l := range listings {
		if l.HasEmail() {
			withEmail++
		}
	}
	fmt.Fprintf(p.out, "\n%d listings, %d with email\n", len(listings), withEmail) //nolint:errcheck
}

func writeList(sb *strings.Builder, values []string, limit int) {
	count := min(len(values), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", values[i]))
	}
	if len(values) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(values)-limit))
	}
}
