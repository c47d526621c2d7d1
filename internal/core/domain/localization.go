package domain

// DefaultLocale is used for release notes given without a locale.
const DefaultLocale = "en-US"

// LocalizationAttributes are the localized texts of a version. Nil fields are not sent.
type LocalizationAttributes struct {
	Description     *string `json:"description,omitempty"`
	Keywords        *string `json:"keywords,omitempty"`
	MarketingURL    *string `json:"marketingUrl,omitempty"`
	PromotionalText *string `json:"promotionalText,omitempty"`
	SupportURL      *string `json:"supportUrl,omitempty"`
	WhatsNew        *string `json:"whatsNew,omitempty"`
}

// WithCreateDefaults fills description, keywords and supportUrl with "" where the caller left them unset.
func (a LocalizationAttributes) WithCreateDefaults() LocalizationAttributes {
	empty := ""
	if a.Description == nil {
		a.Description = &empty
	}
	if a.Keywords == nil {
		a.Keywords = &empty
	}
	if a.SupportURL == nil {
		a.SupportURL = &empty
	}
	return a
}

func (a LocalizationAttributes) WithoutWhatsNew() LocalizationAttributes {
	a.WhatsNew = nil
	return a
}

// Localization is the desired state of one locale of a version.
type Localization struct {
	Locale     string
	Attributes LocalizationAttributes
}

// VersionLocalization is a localization as stored by the API.
type VersionLocalization struct {
	ID         string
	Locale     string
	Attributes LocalizationAttributes
}

// ReleaseNote is the "what's new" text for one locale. An empty Locale means DefaultLocale.
type ReleaseNote struct {
	Locale string
	Text   string
}

// ReleaseNotesText builds release notes from a bare string in DefaultLocale.
func ReleaseNotesText(text string) []ReleaseNote {
	return []ReleaseNote{{Locale: DefaultLocale, Text: text}}
}

// ReleaseNotesLocalizations maps release notes onto whatsNew-only localizations.
func ReleaseNotesLocalizations(notes []ReleaseNote) []Localization {
	out := make([]Localization, 0, len(notes))
	for _, n := range notes {
		locale := n.Locale
		if locale == "" {
			locale = DefaultLocale
		}
		text := n.Text
		out = append(out, Localization{
			Locale:     locale,
			Attributes: LocalizationAttributes{WhatsNew: &text},
		})
	}
	return out
}

// String returns a pointer to s, for filling optional attributes.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for filling optional attributes.
func Bool(b bool) *bool { return &b }
