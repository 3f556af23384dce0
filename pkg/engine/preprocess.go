package engine

import "strings"

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene-language source for zygomys:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables.
//  2. A hyphen between identifier characters becomes an underscore
//     (random-points -> random_points); zygomys reads it as subtraction.
//  3. ; line comments become // comments.
//
// String literals pass through unchanged.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '"' || c == '`':
			j := skipString(source, i)
			out.WriteString(source[i:j])
			i = j

		case c == ';':
			for i < len(source) && source[i] == ';' {
				i++
			}
			j := i
			for j < len(source) && source[j] != '\n' {
				j++
			}
			out.WriteString("//")
			out.WriteString(source[i:j])
			i = j

		case c == ':' && i+1 < len(source) && source[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			j := i + 1
			for j < len(source) && isKWChar(source[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + source[i+1:j] + `"`)
			i = j

		case c == '-' && i > 0 && i+1 < len(source) &&
			isIdentChar(source[i-1]) && isLetter(source[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipString returns the index just past the string literal opening at i.
// Double-quoted literals honor backslash escapes; backtick literals do not.
func skipString(s string, i int) int {
	quote := s[i]
	j := i + 1
	for j < len(s) && s[j] != quote {
		if quote == '"' && s[j] == '\\' && j+1 < len(s) {
			j++
		}
		j++
	}
	if j < len(s) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
