package catalog

import "strings"

const texMarker = ":tex:"

// splitComment splits a source comment "description :tex: formula" into
// its description and repaired formula.
func splitComment(comment string) (desc, tex string) {
	before, after, found := strings.Cut(comment, texMarker)
	if !found {
		return strings.TrimSpace(comment), ""
	}

	return strings.TrimSpace(before), repairTeX(after)
}

var texEscaper = strings.NewReplacer(
	"{", `\{`,
	"}", `\}`,
	"^", `\^{}`,
	"_", `\_`,
	"<", "$<$",
	">", "$>$",
)

// repairTeX makes a formula compile: an unbalanced "$" is closed, and LaTeX
// specials outside the outermost math span are escaped.
func repairTeX(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.Count(s, "$")%2 == 1 {
		s += "$"
	}

	if strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$") {
		return s
	}

	l := strings.Index(s, "$")
	if l < 0 {
		return texEscaper.Replace(s)
	}

	r := strings.LastIndex(s, "$")

	return texEscaper.Replace(s[:l]) + s[l:r+1] + texEscaper.Replace(s[r+1:])
}
