package render

import (
	"regexp"
	"strings"
)

var (
	blankLines = regexp.MustCompile(`\n\s*\n`)
	blockStart = regexp.MustCompile(`(?i)^<(p|div|ul|ol|li|h[1-6]|table|blockquote|pre|hr|form|section|figure)[\s/>]`)
)

// AutoParagraph converts plain text with line breaks into paragraph markup:
// blocks separated by blank lines become <p> elements and single newlines
// inside a block become <br />. Blocks that already open with a block-level
// tag are left untouched.
func AutoParagraph(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var b strings.Builder
	for _, block := range blankLines.Split(strings.TrimSpace(text), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if blockStart.MatchString(block) {
			b.WriteString(block)
			b.WriteString("\n")
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(block, "\n", "<br />\n"))
		b.WriteString("</p>\n")
	}
	return b.String()
}
