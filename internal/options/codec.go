// Package options encodes the per-block option string that stores the values
// an editor picked for an animation's fields.
//
// The format is "options=" followed by "key=value" pairs joined with "|".
// Nothing is escaped: a value containing "|" or "=" does not survive a round
// trip. The grammar is kept as-is because existing bindings depend on it.
package options

import "strings"

// Prefix starts every encoded option string.
const Prefix = "options="

const (
	pairSeparator  = "|"
	valueSeparator = "="
)

// Pair is a single field value.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Values is an ordered list of field values. Order is whatever the caller
// supplies, normally form submission order.
type Values []Pair

// Set replaces the value of key, or appends it when missing.
func (v *Values) Set(key, value string) {
	for i := range *v {
		if (*v)[i].Key == key {
			(*v)[i].Value = value
			return
		}
	}
	*v = append(*v, Pair{Key: key, Value: value})
}

// Get returns the value stored for key.
func (v Values) Get(key string) (string, bool) {
	for _, pair := range v {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// Map flattens the values; later duplicates win.
func (v Values) Map() map[string]string {
	out := make(map[string]string, len(v))
	for _, pair := range v {
		out[pair.Key] = pair.Value
	}
	return out
}

// Encode renders values as an option string.
func Encode(values Values) string {
	var b strings.Builder
	b.WriteString(Prefix)
	for i, pair := range values {
		if i > 0 {
			b.WriteString(pairSeparator)
		}
		b.WriteString(pair.Key)
		b.WriteString(valueSeparator)
		b.WriteString(pair.Value)
	}
	return b.String()
}

// Decode parses an option string into a map. It never fails: each segment is
// split on its first "=", segments without one are dropped, and empty or
// malformed input yields an empty map.
func Decode(raw string) map[string]string {
	return DecodeOrdered(raw).Map()
}

// DecodeOrdered parses an option string keeping segment order.
func DecodeOrdered(raw string) Values {
	body := strings.TrimPrefix(raw, Prefix)
	if body == "" {
		return Values{}
	}
	segments := strings.Split(body, pairSeparator)
	out := make(Values, 0, len(segments))
	for _, segment := range segments {
		key, value, ok := strings.Cut(segment, valueSeparator)
		if !ok {
			continue
		}
		out = append(out, Pair{Key: key, Value: value})
	}
	return out
}
