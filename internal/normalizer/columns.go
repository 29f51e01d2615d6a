package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Candidate header names, in priority order, after canonicalisation.
var (
	timeColumns   = []string{"date", "datetime", "timestamp", "time", "jour"}
	closeColumns  = []string{"close", "cours", "price", "close_price", "cloture", "dernier"}
	openColumns   = []string{"open", "ouverture"}
	highColumns   = []string{"high", "haut", "plus_haut"}
	lowColumns    = []string{"low", "bas", "plus_bas"}
	volumeColumns = []string{"volume", "vol"}
)

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// CanonicalColumn lower-cases a header, strips accents and collapses runs of
// anything that is not a letter or digit into a single underscore.
// "Clôture (€)" becomes "cloture".
func CanonicalColumn(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	s := strings.ToLower(strings.TrimSpace(stripped))
	s = nonWord.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// columnIndex records where each known field lives in a table, -1 if absent.
type columnIndex struct {
	time, close, open, high, low, volume int
}

func resolveColumns(header []string) columnIndex {
	canon := make([]string, len(header))
	for i, h := range header {
		canon[i] = CanonicalColumn(h)
	}
	return columnIndex{
		time:   pick(canon, timeColumns),
		close:  pick(canon, closeColumns),
		open:   pick(canon, openColumns),
		high:   pick(canon, highColumns),
		low:    pick(canon, lowColumns),
		volume: pick(canon, volumeColumns),
	}
}

// pick returns the position of the first candidate present in the header.
func pick(header, candidates []string) int {
	for _, c := range candidates {
		for i, h := range header {
			if h == c {
				return i
			}
		}
	}
	return -1
}
