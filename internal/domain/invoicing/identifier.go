package invoicing

import (
	"math/big"
	"regexp"
	"strings"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// IDGenerator produces human-readable invoice identifiers of the form
// <Prefix><zero-padded number>. Width is a minimum: numbers that need more
// digits are rendered in full.
type IDGenerator struct {
	Prefix string
	Width  int
	Seed   string
}

// NewIDGenerator returns a generator. A width below 1 is treated as 1.
func NewIDGenerator(prefix string, width int, seed string) IDGenerator {
	if width < 1 {
		width = 1
	}
	return IDGenerator{Prefix: prefix, Width: width, Seed: seed}
}

// Next returns the identifier following lastID. An empty lastID means no
// invoice exists yet and the seed is used instead. When the id has no
// trailing digits the sequence starts at 1.
func (g IDGenerator) Next(lastID string) string {
	if lastID == "" {
		lastID = g.Seed
	}

	next := big.NewInt(1)
	if n, ok := Sequence(lastID); ok {
		next.Add(n, big.NewInt(1))
	}

	digits := next.String()
	if pad := g.Width - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return g.Prefix + digits
}

// Sequence extracts the numeric value of the trailing digit run of id.
func Sequence(id string) (*big.Int, bool) {
	m := trailingDigits.FindStringSubmatch(id)
	if m == nil {
		return nil, false
	}
	n, ok := new(big.Int).SetString(m[1], 10)
	return n, ok
}
