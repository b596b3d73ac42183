package playlist

import (
	"strings"

	"github.com/maruel/natural"
)

// NaturalCompare orders strings with embedded numbers by numeric value, so
// "img2.jpg" sorts before "img10.jpg". Letters compare case-insensitively,
// falling back to a plain comparison for ties.
func NaturalCompare(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	switch {
	case natural.Less(la, lb):
		return -1
	case natural.Less(lb, la):
		return 1
	}
	return strings.Compare(a, b)
}
