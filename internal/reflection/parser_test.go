package reflection

import (
	"strings"
	"testing"
)

const fullDocument = `Title: It counts that you kept everyone breathing
General: You're carrying a lot right now and still showing up.
For You Title: Try a free EAP session
For You: You've been stretched thin all day. A free EAP session could be your space to exhale.
For You Action: EAP_SESSION|Schedule a free EAP session|Mental health support
For Them Title: Sharpie cleanup tip
For Them: Rubbing alcohol and a soft cloth will lift the marker right off.
For Them Action: NONE`

func TestParseResponse_FullDocument(t *testing.T) {
	r := ParseResponse(fullDocument)
	if r.Title != "It counts that you kept everyone breathing" {
		t.Fatalf("title: %q", r.Title)
	}
	if r.General != "You're carrying a lot right now and still showing up." {
		t.Fatalf("general: %q", r.General)
	}
	if r.ForYouTitle != "Try a free EAP session" {
		t.Fatalf("forYouTitle: %q", r.ForYouTitle)
	}
	if r.ForYouAction == nil || r.ForYouAction.Type != ActionEAPSession {
		t.Fatalf("forYouAction: %+v", r.ForYouAction)
	}
	if r.ForYouAction.DisplayText != "Schedule a free EAP session" || r.ForYouAction.AdditionalInfo != "Mental health support" {
		t.Fatalf("forYouAction parts: %+v", r.ForYouAction)
	}
	if r.ForThemTitle != "Sharpie cleanup tip" {
		t.Fatalf("forThemTitle: %q", r.ForThemTitle)
	}
	if r.ForThemAction != nil {
		t.Fatalf("expected nil forThemAction for NONE, got %+v", r.ForThemAction)
	}
}

func TestParseResponse_PartialThenComplete(t *testing.T) {
	partial := "Title: Hi there\nGeneral: "
	r := ParseResponse(partial)
	if r.Title != "Hi there" {
		t.Fatalf("partial title: %q", r.Title)
	}
	if r.General != "" {
		t.Fatalf("partial general should be empty, got %q", r.General)
	}
	if r.ForYouTitle != "" || r.ForYouAction != nil {
		t.Fatalf("unarrived sections should be empty")
	}

	complete := partial + "You did great\nFor You Title: Breathe\nFor You: Take five minutes."
	r2 := ParseResponse(complete)
	if r2.Title != "Hi there" {
		t.Fatalf("title regressed: %q", r2.Title)
	}
	if r2.General != "You did great" {
		t.Fatalf("general: %q", r2.General)
	}
	if r2.ForYouTitle != "Breathe" {
		t.Fatalf("forYouTitle: %q", r2.ForYouTitle)
	}
}

func TestParseResponse_Idempotent(t *testing.T) {
	a := ParseResponse(fullDocument)
	b := ParseResponse(fullDocument)
	if !a.Equal(b) {
		t.Fatalf("parse not idempotent: %+v vs %+v", a, b)
	}
}

// Growing the buffer one line at a time must only ever fill or extend fields.
func TestParseResponse_MonotonicRefinement(t *testing.T) {
	lines := strings.SplitAfter(fullDocument, "\n")
	var buf strings.Builder
	var prev AIResponse
	for _, line := range lines {
		buf.WriteString(line)
		cur := ParseResponse(buf.String())
		checkRefines(t, "title", prev.Title, cur.Title)
		checkRefines(t, "general", prev.General, cur.General)
		checkRefines(t, "forYouTitle", prev.ForYouTitle, cur.ForYouTitle)
		checkRefines(t, "forYou", prev.ForYou, cur.ForYou)
		checkRefines(t, "forThemTitle", prev.ForThemTitle, cur.ForThemTitle)
		checkRefines(t, "forThem", prev.ForThem, cur.ForThem)
		prev = cur
	}
}

func checkRefines(t *testing.T, field, before, after string) {
	t.Helper()
	if before != "" && after == "" {
		t.Fatalf("%s regressed to empty (was %q)", field, before)
	}
}

func TestParseSection_OnlyOwnLabels(t *testing.T) {
	text := "For You Title: Breathe\nFor You: Take five minutes.\nFor You Action: CALENDAR_REMINDER|Set a reminder|15 minutes"
	u := ParseSection(text, SectionForYou)
	if u.Section != SectionForYou {
		t.Fatalf("section: %q", u.Section)
	}
	if u.Title != "Breathe" || u.Body != "Take five minutes." {
		t.Fatalf("fields: %+v", u)
	}
	if u.Action == nil || u.Action.Type != ActionCalendarReminder {
		t.Fatalf("action: %+v", u.Action)
	}
}

func TestParseSection_LastLabelRunsToEnd(t *testing.T) {
	// the sibling section's labels are not anchors, so the body runs to EOT
	text := "For Them Title: Sharpie cleanup\nFor Them: Rubbing alcohol works wonders."
	u := ParseSection(text, SectionForThem)
	if u.Body != "Rubbing alcohol works wonders." {
		t.Fatalf("body: %q", u.Body)
	}
	if u.Action != nil {
		t.Fatalf("expected no action before its label arrives, got %+v", u.Action)
	}
}

func TestCleanMarkdown(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"**bold**", "bold"},
		{"__bold__", "bold"},
		{"*italic*", "italic"},
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		// only well-formed wrapper pairs are stripped; the trailing lone
		// underscore survives
		{"_it_alic_", "italic_"},
		{"a **mix** of _styles_ here", "a mix of styles here"},
	}
	for _, tc := range cases {
		if got := cleanMarkdown(tc.in); got != tc.want {
			t.Fatalf("cleanMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
