package reflection

// ActionType is the kind of structured suggestion attached to a card.
// Decoding keeps unrecognized tokens verbatim; use Known to discriminate at
// dispatch time.
type ActionType string

const (
	ActionEAPSession       ActionType = "EAP_SESSION"
	ActionHRContact        ActionType = "HR_CONTACT"
	ActionPhoneSupport     ActionType = "PHONE_SUPPORT"
	ActionCalendarReminder ActionType = "CALENDAR_REMINDER"
	ActionResourceLink     ActionType = "RESOURCE_LINK"
	ActionCareCoordination ActionType = "CARE_COORDINATION"
	ActionMedicalContact   ActionType = "MEDICAL_CONTACT"
	ActionSupportGroup     ActionType = "SUPPORT_GROUP"
	ActionNone             ActionType = "NONE"
)

// Known reports whether t is one of the enumerated action kinds.
func (t ActionType) Known() bool {
	switch t {
	case ActionEAPSession, ActionHRContact, ActionPhoneSupport,
		ActionCalendarReminder, ActionResourceLink, ActionCareCoordination,
		ActionMedicalContact, ActionSupportGroup, ActionNone:
		return true
	}
	return false
}

// ActionItem is a structured suggestion decoded from the compact
// "TYPE|Display Text|Additional Info" micro-format.
type ActionItem struct {
	Type           ActionType `json:"type"`
	DisplayText    string     `json:"displayText"`
	AdditionalInfo string     `json:"additionalInfo"`
}

// Equal compares two possibly-nil action items by value.
func (a *ActionItem) Equal(b *ActionItem) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// AIResponse is the structured reflection feedback. Fields populate in
// document order as the upstream stream reveals them; a partially-parsed
// snapshot simply has the trailing fields empty.
type AIResponse struct {
	Title         string      `json:"title"`
	General       string      `json:"general"`
	ForYouTitle   string      `json:"forYouTitle"`
	ForYou        string      `json:"forYou"`
	ForYouAction  *ActionItem `json:"forYouAction"`
	ForThemTitle  string      `json:"forThemTitle"`
	ForThem       string      `json:"forThem"`
	ForThemAction *ActionItem `json:"forThemAction"`
}

// Equal compares two snapshots field by field.
func (r AIResponse) Equal(o AIResponse) bool {
	return r.Title == o.Title &&
		r.General == o.General &&
		r.ForYouTitle == o.ForYouTitle &&
		r.ForYou == o.ForYou &&
		r.ForYouAction.Equal(o.ForYouAction) &&
		r.ForThemTitle == o.ForThemTitle &&
		r.ForThem == o.ForThem &&
		r.ForThemAction.Equal(o.ForThemAction)
}

// AIImages holds the illustration URLs for the two suggestion cards. Either
// field may be empty when that image's generation failed.
type AIImages struct {
	ForYouImage  string `json:"forYouImage"`
	ForThemImage string `json:"forThemImage"`
}

// Section names one of the two suggestion cards.
type Section string

const (
	SectionForYou  Section = "forYou"
	SectionForThem Section = "forThem"
)

// Valid reports whether s names a shuffleable section.
func (s Section) Valid() bool { return s == SectionForYou || s == SectionForThem }

// SectionUpdate is a snapshot of a single regenerated section. It carries
// only that section's fields, so a concurrent shuffle of the sibling section
// can never be clobbered by merging one of these.
type SectionUpdate struct {
	Section Section     `json:"section"`
	Title   string      `json:"title"`
	Body    string      `json:"body"`
	Action  *ActionItem `json:"action"`
}

// Equal compares two section snapshots.
func (u SectionUpdate) Equal(o SectionUpdate) bool {
	return u.Section == o.Section && u.Title == o.Title && u.Body == o.Body && u.Action.Equal(o.Action)
}
