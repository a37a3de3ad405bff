package verify

import (
	"regexp"
	"strings"
)

// Clean normalizes a raw answer string into the canonical notation the
// parser understands. It never fails: garbage passes through unchanged and
// is rejected later by the parser, which the dispatcher treats as an
// inconclusive check.
//
// Transformations, in order: trim, lowercase, strip $ delimiters and
// \displaystyle, collapse whitespace, rewrite \frac{A}{B} and \sqrt{A},
// map LaTeX operator/constant macros, turn leftover braces into parens,
// and strip a trailing "+c" integration constant.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ToLower(s)

	s = strings.Trim(s, "$")
	s = strings.ReplaceAll(s, `\displaystyle`, "")

	s = whitespaceRe.ReplaceAllString(s, "")

	s = rewriteFrac(s)
	s = rewriteSqrt(s)

	s = strings.ReplaceAll(s, `\pi`, "pi")
	s = strings.ReplaceAll(s, `\cdot`, "*")
	s = strings.ReplaceAll(s, `\times`, "*")
	s = strings.ReplaceAll(s, `\div`, "/")
	s = strings.ReplaceAll(s, `\left`, "")
	s = strings.ReplaceAll(s, `\right`, "")

	// Anything still braced (e.g. e^{2x}) parses fine with parens instead.
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")

	s = trailingConstRe.ReplaceAllString(s, "")

	return s
}

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	trailingConstRe = regexp.MustCompile(`\+c$`)
)

// rewriteFrac rewrites every \frac{A}{B} as (A)/(B), handling nesting by
// matching braces instead of using a regex.
func rewriteFrac(s string) string {
	for {
		i := strings.Index(s, `\frac`)
		if i < 0 {
			return s
		}
		num, rest, ok := takeBraced(s[i+len(`\frac`):])
		if !ok {
			return s
		}
		den, tail, ok := takeBraced(rest)
		if !ok {
			return s
		}
		s = s[:i] + "(" + num + ")/(" + den + ")" + tail
	}
}

// rewriteSqrt rewrites every \sqrt{A} as sqrt(A).
func rewriteSqrt(s string) string {
	for {
		i := strings.Index(s, `\sqrt`)
		if i < 0 {
			return s
		}
		arg, tail, ok := takeBraced(s[i+len(`\sqrt`):])
		if !ok {
			return s
		}
		s = s[:i] + "sqrt(" + arg + ")" + tail
	}
}

// takeBraced consumes a leading {...} group, returning its content and the
// remainder. Nested braces are balanced.
func takeBraced(s string) (content, rest string, ok bool) {
	if len(s) == 0 || s[0] != '{' {
		return "", "", false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}
