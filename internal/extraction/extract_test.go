package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(nil, nil)
	require.NoError(t, err)
	return e
}

func TestExtract_EmptyContent(t *testing.T) {
	e := newTestExtractor(t)

	assert.Equal(t, []string{}, e.Extract("", "Acme"))
	assert.Equal(t, []string{}, e.Extract("   \n\t", "Acme"))
	assert.Equal(t, []string{}, e.Extract("<html><body>no contact here</body></html>", "Acme"))
}

func TestExtract_SingleEmailCasePreserved(t *testing.T) {
	e := newTestExtractor(t)

	for _, email := range []string{"Jane.Doe@Acme-Plumbing.COM", "a+b%c@x.io", "owner@shop.co.uk"} {
		t.Run(email, func(t *testing.T) {
			require.True(t, IsValidEmail(email))
			assert.Equal(t, []string{email}, e.Extract(email, ""))
		})
	}
}

func TestExtract_DedupKeepsFirstCasing(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Extract("Sales@Acme.com, sales@acme.com and SALES@ACME.COM", "")
	assert.Equal(t, []string{"Sales@Acme.com"}, got)
}

func TestExtract_DenylistNeverReturned(t *testing.T) {
	e := newTestExtractor(t)
	content := `
		<img src="logo@2x.png"> <a href="mailto:noreply@acme.com">x</a>
		webmaster@acme.com privacy@acme.com user@example.com
		hello@acme.com bob@gstatic.com contact@tinyurl.com
	`

	got := e.Extract(content, "Acme")
	assert.Equal(t, []string{"hello@acme.com"}, got)
	for _, email := range got {
		assert.False(t, e.denylist.Matches(email), email)
	}
}

func TestExtract_TrailingPunctuation(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Extract("Write to us (info@acme.com). Or call.", "")
	assert.Equal(t, []string{"info@acme.com"}, got)
}

func TestExtract_RanksBusinessFirst(t *testing.T) {
	e := newTestExtractor(t)
	html := `<html><body>
		<p>random@other.com</p>
		<p>webmaster@acme.com</p>
		<footer>info@acme.com</footer>
	</body></html>`

	got := e.Extract(html, "Acme Corp")
	assert.Equal(t, []string{"info@acme.com", "random@other.com"}, got)
}

func TestExtract_RequiresLetterTLD(t *testing.T) {
	e := newTestExtractor(t)

	assert.Empty(t, e.Extract("version@1.2.3 and user@host.c", ""))
}

func TestCandidates_NotRanked(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Candidates("jane@other.com info@acme.com")
	assert.Equal(t, []string{"jane@other.com", "info@acme.com"}, got)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("info@acme.com"))
	assert.False(t, IsValidEmail("(info@acme.com)"))
	assert.False(t, IsValidEmail("info@acme"))
	assert.False(t, IsValidEmail(""))
}
