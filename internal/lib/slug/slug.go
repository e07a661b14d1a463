package slug

import (
	"strings"
	"unicode"
)

const fallback = "gallery"

// Make переводит заголовок в URL-идентификатор: нижний регистр, латиница и цифры, разделитель "-"
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case r == '\'' || r == '"':
			// апострофы выкидываем без разделителя: "o'brien" -> "obrien"
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return fallback
	}

	return s
}

// WithSuffix делает slug уникальным, добавляя случайный суффикс
func WithSuffix(base, suffix string) string {
	if suffix == "" {
		return base
	}

	return base + "-" + suffix
}
