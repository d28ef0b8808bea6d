package reflection

import "strings"

// The eight canonical labels in document order. The model is instructed to
// emit them exactly like this; parsing anchors on them in order, so "Title:"
// can never accidentally match inside "For You Title:".
var fullLabels = []string{
	"Title:",
	"General:",
	"For You Title:",
	"For You:",
	"For You Action:",
	"For Them Title:",
	"For Them:",
	"For Them Action:",
}

var sectionLabels = map[Section][]string{
	SectionForYou:  {"For You Title:", "For You:", "For You Action:"},
	SectionForThem: {"For Them Title:", "For Them:", "For Them Action:"},
}

// extractSections scans text for the given labels in order. The value of
// label i is everything after it up to the next label that is present, or
// end-of-text for the last one. Labels that have not arrived yet yield "".
// The scan is pure and re-runs from scratch on every call: re-parsing a
// strictly longer buffer can only extend or fill fields, never shrink them.
func extractSections(text string, labels []string) []string {
	starts := make([]int, len(labels))
	cursor := 0
	for i, label := range labels {
		idx := strings.Index(text[cursor:], label)
		if idx < 0 {
			starts[i] = -1
			continue
		}
		starts[i] = cursor + idx
		cursor = starts[i] + len(label)
	}

	values := make([]string, len(labels))
	for i := range labels {
		if starts[i] < 0 {
			continue
		}
		begin := starts[i] + len(labels[i])
		end := len(text)
		for j := i + 1; j < len(labels); j++ {
			if starts[j] >= 0 {
				end = starts[j]
				break
			}
		}
		values[i] = cleanMarkdown(text[begin:end])
	}
	return values
}

// ParseResponse extracts a full response snapshot from the text accumulated
// so far. Safe to call after every fragment; idempotent for a fixed input.
func ParseResponse(text string) AIResponse {
	v := extractSections(text, fullLabels)
	return AIResponse{
		Title:         v[0],
		General:       v[1],
		ForYouTitle:   v[2],
		ForYou:        v[3],
		ForYouAction:  DecodeActionItem(v[4]),
		ForThemTitle:  v[5],
		ForThem:       v[6],
		ForThemAction: DecodeActionItem(v[7]),
	}
}

// ParseSection extracts a single section's snapshot from accumulated shuffle
// output. Only that section's three labels act as anchors; the sibling
// section's labels are neither expected nor required for termination.
func ParseSection(text string, section Section) SectionUpdate {
	v := extractSections(text, sectionLabels[section])
	return SectionUpdate{
		Section: section,
		Title:   v[0],
		Body:    v[1],
		Action:  DecodeActionItem(v[2]),
	}
}
