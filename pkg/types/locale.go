package types

import (
	"net/http"
	"strings"
)

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"
)

const DefaultLocale = LocaleEnglish

func (l Locale) IsRTL() bool {
	return l == LocaleArabic
}

func (l Locale) IsValid() bool {
	return l == LocaleEnglish || l == LocaleArabic
}

// LocalizedText holds both translations of a user facing string. Resolve
// falls back to the other language when one side is missing so the UI never
// renders an empty title.
type LocalizedText struct {
	En string `json:"en,omitempty"`
	Ar string `json:"ar,omitempty"`
}

func (t LocalizedText) Resolve(locale Locale) string {
	if locale == LocaleArabic && t.Ar != "" {
		return t.Ar
	}
	if t.En != "" {
		return t.En
	}
	return t.Ar
}

func (t LocalizedText) IsEmpty() bool {
	return t.En == "" && t.Ar == ""
}

// LocaleFromRequest resolves the request locale from the query string, the
// lang cookie or the Accept-Language header, in that order.
func LocaleFromRequest(r *http.Request) Locale {
	if l := Locale(r.URL.Query().Get("locale")); l.IsValid() {
		return l
	}
	if c, err := r.Cookie("lang"); err == nil {
		if l := Locale(c.Value); l.IsValid() {
			return l
		}
	}
	for lang := range strings.SplitSeq(r.Header.Get("Accept-Language"), ",") {
		lang = strings.TrimSpace(lang)
		if idx := strings.IndexAny(lang, "-;"); idx > 0 {
			lang = lang[:idx]
		}
		if l := Locale(lang); l.IsValid() {
			return l
		}
	}
	return DefaultLocale
}
