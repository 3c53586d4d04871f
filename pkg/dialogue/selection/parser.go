package selection

import (
	"strings"
)

// Kind tags the outcome of resolving a selection input
type Kind string

const (
	KindIndices Kind = "INDICES" // at least one in-range index resolved
	KindCancel  Kind = "CANCEL"  // user typed "cancel"
	KindInvalid Kind = "INVALID" // nothing usable in the input
)

// Resolution is the tagged result of parsing a selection response.
// Indices are 0-based, deduplicated, and always within [0, n-1] for a
// candidate list of length n.
type Resolution struct {
	Kind    Kind
	Indices []int
}

// ResolveIndices resolves a structured list of 1-based indices against a
// candidate list of length n. Out-of-range values are dropped, duplicates
// collapse to the first occurrence.
func ResolveIndices(indices []int, n int) Resolution {
	picked := dedupeInRange(indices, n)
	if len(picked) == 0 {
		return Resolution{Kind: KindInvalid}
	}
	return Resolution{Kind: KindIndices, Indices: picked}
}

// ResolveText resolves a free-text selection response against a candidate
// list of length n. Supports:
//   - "cancel" → Cancel
//   - "1,3, 5" → comma-separated 1-based indices; non-digit tokens and
//     out-of-range values are dropped
//
// Anything that yields no valid index is Invalid.
func ResolveText(input string, n int) Resolution {
	cleaned := strings.ToLower(strings.TrimSpace(input))
	if cleaned == "cancel" {
		return Resolution{Kind: KindCancel}
	}

	var indices []int
	for _, token := range strings.Split(cleaned, ",") {
		token = strings.TrimSpace(token)
		if !isAllDigits(token) {
			continue
		}
		indices = append(indices, atoiDigits(token))
	}

	picked := dedupeInRange(indices, n)
	if len(picked) == 0 {
		return Resolution{Kind: KindInvalid}
	}
	return Resolution{Kind: KindIndices, Indices: picked}
}

// IsNumberList reports whether every comma-separated token of text is made
// entirely of decimal digits. The dialogue engine uses this to route a
// free-text message into the selection flow even when stage bookkeeping is
// stale.
func IsNumberList(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, token := range strings.Split(text, ",") {
		if !isAllDigits(strings.TrimSpace(token)) {
			return false
		}
	}
	return true
}

// dedupeInRange converts 1-based indices to 0-based, drops values outside
// [1, n], and collapses duplicates preserving first-occurrence order. This is
// the single 1-based/0-based conversion point.
func dedupeInRange(indices []int, n int) []int {
	seen := make(map[int]bool, len(indices))
	var out []int
	for _, i := range indices {
		if i < 1 || i > n {
			continue
		}
		zero := i - 1
		if seen[zero] {
			continue
		}
		seen[zero] = true
		out = append(out, zero)
	}
	return out
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoiDigits(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
