package assembler

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// DefaultSectionPrefix is prepended to the block ID to form its DOM anchor.
const DefaultSectionPrefix = "paragraph-id-"

const (
	timelineAlphabet = "_abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	timelineLength   = 7
)

var (
	idReplacer    = strings.NewReplacer(" ", "-", "_", "-", "[", "-", "]", "")
	idInvalid     = regexp.MustCompile(`[^A-Za-z0-9\-_]`)
	idDashRuns    = regexp.MustCompile(`-+`)
	numericString = regexp.MustCompile(`^\s*[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?\s*$`)
	markupTags    = regexp.MustCompile(`<[^>]*>`)
)

// SectionID derives the DOM anchor id of a block. The result is lower case,
// maps space, underscore and "[" to "-", drops "]" and any character outside
// [A-Za-z0-9-_], and collapses runs of "-".
func SectionID(prefix, blockID string) string {
	id := idReplacer.Replace(strings.ToLower(prefix + blockID))
	id = idInvalid.ReplaceAllString(id, "")
	return idDashRuns.ReplaceAllString(id, "-")
}

// IsNumeric reports whether value reads as a decimal number, allowing
// surrounding whitespace, a sign, a fraction and an exponent.
func IsNumeric(value string) bool {
	return numericString.MatchString(value)
}

// SectionLabel is the human label of a block: its title with markup removed,
// or the block ID when it has no title.
func SectionLabel(block *Block) string {
	if block == nil {
		return ""
	}
	if strings.TrimSpace(block.Title) == "" {
		return block.ID
	}
	return strings.TrimSpace(markupTags.ReplaceAllString(block.Title, ""))
}

// RandomSource yields integers in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultRandomSource draws from the math/rand/v2 global generator.
func DefaultRandomSource() RandomSource {
	return globalSource{}
}

// TimelineNamer generates the variable names that replace [timeline].
type TimelineNamer struct {
	source RandomSource
}

// NewTimelineNamer returns a namer backed by source, or by the global
// generator when source is nil.
func NewTimelineNamer(source RandomSource) *TimelineNamer {
	if source == nil {
		source = DefaultRandomSource()
	}
	return &TimelineNamer{source: source}
}

// Next returns a fresh 7 character name drawn uniformly from [A-Za-z_].
func (n *TimelineNamer) Next() string {
	buf := make([]byte, timelineLength)
	for i := range buf {
		buf[i] = timelineAlphabet[n.source.IntN(len(timelineAlphabet))]
	}
	return string(buf)
}
