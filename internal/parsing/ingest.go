package parsing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/interview-screener/internal/faults"
)

// looksLikeHTML sniffs for an HTML document. Résumés exported from word
// processors and profile sites commonly arrive as HTML.
func looksLikeHTML(text string) bool {
	head := strings.ToLower(strings.TrimSpace(text))
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}

// htmlToText strips an HTML résumé down to its visible text, dropping
// navigation and script noise, with one line per text block.
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", faults.Validation("resume", "could not parse HTML document: %v", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .sidebar").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	var sb strings.Builder
	body.Find("h1, h2, h3, h4, p, li, td, div").Each(func(_ int, sel *goquery.Selection) {
		// Only leaf-ish blocks; containers repeat their children's text.
		if sel.Children().Length() > 0 && sel.Is("div") {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	})
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		text = body.Text()
	}

	return cleanWhitespace(text), nil
}

// cleanWhitespace trims every line and drops the empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
