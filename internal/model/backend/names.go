package backend

import "strings"

// punctuation is the rejected character set: the ASCII punctuation block
// minus underscore, which stays legal in names like "my_savings".
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^`{|}~"

// ValidName reports whether name is acceptable as a ledger name:
// non-empty and free of punctuation.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, punctuation)
}
