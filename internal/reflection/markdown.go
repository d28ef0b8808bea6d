package reflection

import (
	"regexp"
	"strings"
)

// The model is instructed to emit plain text, but emphasis markers still slip
// through; strip well-formed wrapper pairs only. Double markers go first so
// "**bold**" is not half-eaten by the single-star rule. A lone unmatched
// marker is left alone.
var markdownWrappers = []*regexp.Regexp{
	regexp.MustCompile(`\*\*(.+?)\*\*`),
	regexp.MustCompile(`__(.+?)__`),
	regexp.MustCompile(`\*(.+?)\*`),
	regexp.MustCompile(`_(.+?)_`),
}

func cleanMarkdown(s string) string {
	for _, re := range markdownWrappers {
		s = re.ReplaceAllString(s, "$1")
	}
	return strings.TrimSpace(s)
}
