package properties

import (
	"strings"
	"unicode"
)

// Nicify turns a serialized field name into the label the editor shows:
// "m_EnableMipMap" becomes "Enable Mip Map", "sRGBTexture" becomes
// "S RGB Texture".
func Nicify(name string) string {
	switch {
	case strings.HasPrefix(name, "m_"):
		name = name[2:]
	case strings.HasPrefix(name, "_"):
		name = name[1:]
	case len(name) > 1 && name[0] == 'k' && unicode.IsUpper(rune(name[1])):
		name = name[1:]
	}

	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if r == '_' {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
				b.WriteRune(' ')
			}
			continue
		}
		if i > 0 && unicode.IsUpper(r) && b.Len() > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		if b.Len() == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
