package assembler

import (
	"strings"

	"github.com/goliatone/go-cms-animations/animation"
)

// Expand substitutes tokens in template. Each "[name]" is resolved once, in
// priority order: a key of values, then [section_id] ("#"+sectionID), then
// [timeline]. Substituted text is never scanned again, so a value that
// happens to contain a token is emitted literally. Unknown bracketed text is
// left alone.
func Expand(template string, values map[string]string, sectionID, timeline string) string {
	if !strings.Contains(template, "[") {
		return template
	}

	var out strings.Builder
	out.Grow(len(template))

	rest := template
	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])
		rest = rest[open:]

		end := strings.IndexByte(rest[1:], ']')
		if end < 0 {
			out.WriteString(rest)
			break
		}
		name := rest[1 : end+1]
		if replacement, ok := resolveToken(name, values, sectionID, timeline); ok {
			out.WriteString(replacement)
			rest = rest[end+2:]
			continue
		}
		// Not a token: keep the bracket and rescan from the next byte so
		// "[[dur]]" still resolves the inner token.
		out.WriteByte('[')
		rest = rest[1:]
	}
	return out.String()
}

func resolveToken(name string, values map[string]string, sectionID, timeline string) (string, bool) {
	if value, ok := values[name]; ok {
		return value, true
	}
	switch name {
	case animation.TokenSectionID:
		return "#" + sectionID, true
	case animation.TokenTimeline:
		return timeline, true
	}
	return "", false
}
