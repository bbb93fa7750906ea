package i18n

// Text is a localized string keyed by locale. It replaces the paired
// name_zh/name_en fields of the backend wire format with a single map
// resolved through one projection function.
type Text map[string]string

// Resolve returns the string for locale, falling back to the default
// locale and then to any available value.
func (t Text) Resolve(locale string) string {
	if s, ok := t[locale]; ok && s != "" {
		return s
	}
	if s, ok := t[DefaultLocale]; ok && s != "" {
		return s
	}
	for _, s := range t {
		if s != "" {
			return s
		}
	}
	return ""
}

// NewText builds a Text from the zh/en field pair used on the wire.
// Either side may be empty; the other fills in.
func NewText(zh, en string) Text {
	if zh == "" {
		zh = en
	}
	if en == "" {
		en = zh
	}
	return Text{"zh": zh, "en": en}
}
