// Package export renders collected listings as a spreadsheet-friendly CSV file.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// ContentType is the media type served for CSV downloads.
const ContentType = "text/csv; charset=utf-8"

// Header lists the exported columns in order.
var Header = []string{
	"Name", "Address", "Phone", "Additional Phones", "Website",
	"Email", "Additional Emails", "Social Media", "Other Contacts", "Rating",
}

// multiSeparator joins multi-valued fields inside one cell.
const multiSeparator = "; "

// FileName returns the download name for an export made at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("google-maps-data-%s.csv", t.Format("2006-01-02"))
}

// Row returns the cells of one listing in Header order.
func Row(l types.Listing) []string {
	return []string{
		l.Name,
		l.Address,
		l.Phone,
		strings.Join(l.AdditionalPhones, multiSeparator),
		l.Website,
		l.Email,
		strings.Join(l.AdditionalEmails, multiSeparator),
		strings.Join(l.SocialMedia, multiSeparator),
		strings.Join(l.AdditionalContacts, multiSeparator),
		l.Rating,
	}
}

// Write writes the bare header and one row per listing. Every data cell is quoted.
func Write(w io.Writer, listings []types.Listing) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return err
	}
	for _, l := range listings {
		if err := writeLine(bw, Row(l)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Encode returns the CSV document as a string.
func Encode(listings []types.Listing) string {
	var sb strings.Builder
	_ = Write(&sb, listings)
	return sb.String()
}

func writeLine(w *bufio.Writer, cells []string) error {
	line := strings.Join(lo.Map(cells, func(c string, _ int) string { return quote(c) }), ",")
	_, err := w.WriteString(line + "\n")
	return err
}

func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
