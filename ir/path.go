package ir

import (
	"fmt"
	"strings"
	"unicode"
)

// ParsePath splits a dotted member path such as "Customer.Address.City"
// into its segments.
func ParsePath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var segments []string

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		if strings.HasSuffix(part, "[]") {
			return nil, fmt.Errorf("%w %q: collection segments are mapped element-wise, not addressed", ErrInvalidPath, path)
		}

		if !isValidIdent(part) {
			return nil, fmt.Errorf("%w %q: invalid identifier %q", ErrInvalidPath, path, part)
		}

		segments = append(segments, part)
	}

	return segments, nil
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}

			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

// MemberPath returns the segments of a pure member-access chain rooted at
// param, or false when n is anything else.
func MemberPath(n Node, param *Parameter) ([]string, bool) {
	var rev []string

	for {
		switch t := n.(type) {
		case *Member:
			rev = append(rev, t.Name)
			n = t.Object
		case *Parameter:
			if t != param || len(rev) == 0 {
				return nil, false
			}

			out := make([]string, len(rev))
			for i, s := range rev {
				out[len(rev)-1-i] = s
			}

			return out, true
		default:
			return nil, false
		}
	}
}
