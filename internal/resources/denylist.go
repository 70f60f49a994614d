package resources

import "strings"

// subjectDenylists maps a canonical subject to keywords that mark a record
// as belonging to a different subject. Keyword overlap in key_concepts is
// not enough to admit a record whose title or subject names another field
// outright.
var subjectDenylists = map[string][]string{
	"operating systems": {
		"data structures",
		"database",
		"microprocessor",
		"chemistry",
	},
	"data structures": {
		"operating system",
		"database",
		"computer networks",
		"chemistry",
	},
	"computer networks": {
		"data structures",
		"microprocessor",
		"chemistry",
	},
	"database management": {
		"operating system",
		"microprocessor",
		"chemistry",
	},
}

// Contaminated reports whether a record's title or subject matches the
// denylist for the subject being queried. Matching is case-insensitive
// substring matching, the same way the store queries match.
func Contaminated(querySubject, title, recordSubject string) bool {
	deny, ok := subjectDenylists[strings.ToLower(strings.TrimSpace(querySubject))]
	if !ok {
		return false
	}
	title = strings.ToLower(title)
	recordSubject = strings.ToLower(recordSubject)
	for _, kw := range deny {
		if strings.Contains(title, kw) || strings.Contains(recordSubject, kw) {
			return true
		}
	}
	return false
}
