package extract

import "strconv"

// jsStringLiteral renders s as a double-quoted JS string literal. Go's
// strconv.Quote escape set (backslash, double quote, control characters,
// \uXXXX for non-ASCII) is a safe superset of what JS string literals
// accept, so it is reused rather than hand-rolled.
func jsStringLiteral(s string) string {
	return strconv.Quote(s)
}
