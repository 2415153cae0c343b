package latex

import "strings"

// latexSpecial maps characters that carry meaning in LaTeX source to their
// escaped spellings. Substitution values pass through this before rendering
// so row data cannot break the surrounding document.
var latexSpecial = map[rune]string{
	'&':  `\&`,
	'%':  `\%`,
	'$':  `\$`,
	'#':  `\#`,
	'_':  `\_`,
	'{':  `\{`,
	'}':  `\}`,
	'~':  `\textasciitilde{}`,
	'^':  `\^{}`,
	'\\': `\textbackslash{}`,
	'<':  `\textless{}`,
	'>':  `\textgreater{}`,
}

// Escape rewrites LaTeX special characters in text so the result is safe to
// interpolate into a LaTeX document body.
func Escape(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	for _, r := range text {
		if escaped, ok := latexSpecial[r]; ok {
			out.WriteString(escaped)
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
