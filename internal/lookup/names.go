package lookup

import (
	"regexp"
)

var (
	// {page,id} or {,id}
	referencePattern = regexp.MustCompile(`\{(\d*),\s*(\d+)\}`)
	// the last parenthesised group that contains no closing parenthesis
	parenthesesPattern = regexp.MustCompile(`^(.*)\([^)]*\)(.*)$`)
)

// ResolveName substitutes every {page,id} reference in s with its string-table
// text and then strips parenthesised annotations until none remain.
//
// Substituted text is scanned again, so references nested inside table
// entries are expanded too. Each (page, id) pair is substituted once; later
// occurrences of the same pair become empty, which also bounds the expansion
// of self-referencing entries.
func (t *Tables) ResolveName(s string) string {
	seen := make(map[[2]string]bool)
	for {
		m := referencePattern.FindStringSubmatchIndex(s)
		if m == nil {
			break
		}
		page := s[m[2]:m[3]]
		if page == "" {
			page = t.defaultPage()
		}
		id := s[m[4]:m[5]]

		key := [2]string{page, id}
		replacement := ""
		if !seen[key] {
			seen[key] = true
			replacement = t.lookupString(page, id)
		}
		s = s[:m[0]] + replacement + s[m[1]:]
	}

	for {
		m := parenthesesPattern.FindStringSubmatch(s)
		if m == nil {
			break
		}
		s = m[1] + m[2]
	}
	return s
}
