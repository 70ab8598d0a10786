package render

import "strings"

// TemplateFuncs returns helpers for template engines. The main helper is
//
//	t(key, ...args) string
//
// bound to the localizer's locale, plus "lang" returning its language tag.
func TemplateFuncs(l Localizer) map[string]any {
	return map[string]any{
		"t": func(key string, args ...any) string {
			if strings.TrimSpace(key) == "" {
				return ""
			}
			return l.Text(key, args...)
		},
		"lang": func() string {
			return l.Lang()
		},
	}
}
