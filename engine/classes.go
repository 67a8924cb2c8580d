package engine

// Stock ASCII character classes. The dotted names are stable and surface in
// diagnostics; tools match on them, so renaming one is a breaking change.
// Unicode classification tables are deliberately not part of this package.
var (
	ASCIIAlpha = Class("ascii.alpha", func(b byte) bool {
		return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
	})

	ASCIIAlnum = Class("ascii.alnum", func(b byte) bool {
		return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
	})

	ASCIIWord = Class("ascii.word", func(b byte) bool {
		return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
	})

	ASCIIAlphaUnderscore = Class("ascii.alpha-underscore", func(b byte) bool {
		return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
	})

	ASCIILower = Class("ascii.lower", func(b byte) bool {
		return b >= 'a' && b <= 'z'
	})

	ASCIIUpper = Class("ascii.upper", func(b byte) bool {
		return b >= 'A' && b <= 'Z'
	})

	DigitDecimal = Class("digit.decimal", func(b byte) bool {
		return b >= '0' && b <= '9'
	})

	DigitHex = Class("digit.hex", func(b byte) bool {
		return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	})

	ASCIISpace = Class("ascii.space", func(b byte) bool {
		return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
	})

	ASCIIBlank = Class("ascii.blank", func(b byte) bool {
		return b == ' ' || b == '\t'
	})
)

// OneOf matches a single character from the given set.
func OneOf(name, set string) ClassMatcher {
	return Class(name, func(b byte) bool {
		for i := 0; i < len(set); i++ {
			if set[i] == b {
				return true
			}
		}
		return false
	})
}
