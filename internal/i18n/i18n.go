package i18n

// Language is a storefront display language
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageDari    Language = "fa"
	LanguagePashto  Language = "ps"
)

// IsValid checks if the language code is one the storefront serves
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageDari, LanguagePashto:
		return true
	default:
		return false
	}
}

// Fallback returns the next language to try when a field has no value
// in l. Pashto falls back to Dari before English; Dari falls back to
// English directly. English is the base language and has no fallback.
func (l Language) Fallback() (Language, bool) {
	switch l {
	case LanguagePashto:
		return LanguageDari, true
	case LanguageDari:
		return LanguageEnglish, true
	default:
		return "", false
	}
}

// Resolve picks the best available translation of a base field from a
// record of suffixed fields (e.g. "name", "name_fa", "name_ps"). The
// base field carries the English value. It walks the fallback chain and
// always returns a string, possibly empty.
func Resolve(fields map[string]string, lang Language, base string) string {
	for lang != LanguageEnglish && lang.IsValid() {
		if v := fields[base+"_"+string(lang)]; v != "" {
			return v
		}
		next, ok := lang.Fallback()
		if !ok {
			break
		}
		lang = next
	}
	return fields[base]
}

// Text is a trilingual string field. Base holds the English value and is
// the terminal fallback.
type Text struct {
	Base   string `json:"en"`
	Dari   string `json:"fa,omitempty"`
	Pashto string `json:"ps,omitempty"`
}

// In returns the text in the requested language, following the same
// fallback chain as Resolve.
func (t Text) In(lang Language) string {
	for lang != LanguageEnglish && lang.IsValid() {
		var v string
		switch lang {
		case LanguageDari:
			v = t.Dari
		case LanguagePashto:
			v = t.Pashto
		}
		if v != "" {
			return v
		}
		next, ok := lang.Fallback()
		if !ok {
			break
		}
		lang = next
	}
	return t.Base
}
