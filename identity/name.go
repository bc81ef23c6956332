package identity

import (
	"strings"
	"unicode"
)

// Name is a full name split into first and last name. Tight variants drop
// the spaces inside each part.
type Name struct {
	First      string
	Last       string
	TightFirst string
	TightLast  string
}

// SplitName separates first and last names. A word belongs to the last name
// when its second letter is a capital, or it starts with "Mc", "O'" or
// "Mac" followed by a capital, or it is "van" or "von". Last names are
// upper-cased.
func SplitName(full string) Name {
	var first, last []string
	for _, w := range strings.Fields(full) {
		w = strings.ReplaceAll(w, ".", "")
		if w == "" {
			continue
		}
		if isLastName(w) {
			last = append(last, strings.ToUpper(w))
		} else {
			first = append(first, w)
		}
	}
	return Name{
		First:      strings.Join(first, " "),
		Last:       strings.Join(last, " "),
		TightFirst: strings.Join(first, ""),
		TightLast:  strings.Join(last, ""),
	}
}

func isLastName(w string) bool {
	r := []rune(w)
	if len(r) < 2 {
		return false
	}
	switch {
	case unicode.IsUpper(r[1]):
		return true
	case strings.HasPrefix(w, "Mc"), strings.HasPrefix(w, "O'"):
		return true
	case len(r) > 3 && strings.HasPrefix(w, "Mac") && unicode.IsUpper(r[3]):
		return true
	}
	return w == "van" || w == "von"
}

func (n Name) Full() string {
	return strings.TrimSpace(n.First + " " + n.Last)
}

// Key is the normalized name people are matched on.
func (n Name) Key() string {
	return n.TightFirst + " " + n.TightLast
}
