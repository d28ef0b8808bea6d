package reflection

import "strings"

// DecodeActionItem parses the "TYPE|Display Text|Additional Info" micro-format
// from an action section's text. Empty text, or text containing the literal
// NONE token, means no action. The type token is carried verbatim without
// validating it against the enumerated kinds; a surprising token is better
// rendered plainly than dropped. Never fails.
func DecodeActionItem(raw string) *ActionItem {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, string(ActionNone)) {
		return nil
	}
	parts := strings.SplitN(raw, "|", 3)
	item := &ActionItem{Type: ActionType(strings.TrimSpace(parts[0]))}
	if len(parts) > 1 {
		item.DisplayText = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		item.AdditionalInfo = strings.TrimSpace(parts[2])
	}
	return item
}
