package directory

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// ErrEmptyBlock marks a block with zero parseable key/value lines.
var ErrEmptyBlock = errors.New("block contains no parseable attribute lines")

// Value is one attribute value. Opaque values were binary-encoded in the
// source (LDIF doubled-delimiter form) and are carried verbatim, never
// decoded to bytes.
type Value struct {
	Raw    string
	Opaque bool
}

// Record is an ordered, multi-valued attribute mapping for one object.
// Lookup keys are case-folded; the exact raw lines keep the original casing
// for display. Duplicate keys append in input order.
type Record struct {
	keys     []string
	values   map[string][]Value
	rawLines []string
}

func NewRecord() *Record {
	return &Record{
		values: make(map[string][]Value),
	}
}

// Add appends a value under name.
func (r *Record) Add(name, raw string, opaque bool) {
	key := strings.ToLower(name)
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = append(r.values[key], Value{Raw: raw, Opaque: opaque})
}

// Has reports whether key is present (case-insensitive).
func (r *Record) Has(key string) bool {
	_, ok := r.values[strings.ToLower(key)]
	return ok
}

// First returns the first value for key.
func (r *Record) First(key string) (Value, bool) {
	vals := r.values[strings.ToLower(key)]
	if len(vals) == 0 {
		return Value{}, false
	}
	return vals[0], true
}

// FirstString returns the first value for key as a raw string.
func (r *Record) FirstString(key string) (string, bool) {
	v, ok := r.First(key)
	return v.Raw, ok
}

// Strings returns all values for key in input order.
func (r *Record) Strings(key string) []string {
	vals := r.values[strings.ToLower(key)]
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.Raw
	}
	return out
}

// Keys returns the canonical keys in first-seen order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len is the number of distinct keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// RawLines returns the exact attribute lines as parsed (continuations
// already folded in), in input order. These are the Raw Data facts the
// merge engine unions by exact equality.
func (r *Record) RawLines() []string {
	return append([]string(nil), r.rawLines...)
}

// BuildRecord parses one raw block into a Record, splitting each line on the
// first occurrence of delim only. A line without the delimiter continues the
// previous attribute's value joined with a single space; with no previous
// attribute to continue it is dropped with a diagnostic. Best-effort
// recovery: the goal is keeping required attributes intact, not perfect text
// reconstruction.
func BuildRecord(block RawBlock, delim string, logger zerolog.Logger) (*Record, error) {
	rec := NewRecord()
	lastKey := ""

	for i, line := range block.Lines {
		name, value, found := strings.Cut(line, delim)
		name = strings.TrimSpace(name)

		if !found || name == "" {
			if lastKey == "" {
				logger.Warn().
					Int("block", block.Seq).
					Int("line", block.Line+i).
					Str("text", line).
					Msg("dropping orphan continuation line")
				continue
			}
			// Continuation of a wrapped or log-polluted value.
			vals := rec.values[lastKey]
			cont := strings.TrimSpace(line)
			vals[len(vals)-1].Raw += " " + cont
			rec.rawLines[len(rec.rawLines)-1] += " " + cont
			continue
		}

		// LDIF convention: "name:: <base64>" marks a binary-encoded value.
		// Keep it verbatim and flag it opaque.
		opaque := false
		if strings.HasSuffix(name, ":") && delim != "" && strings.HasPrefix(delim, ":") {
			name = strings.TrimSuffix(name, ":")
			opaque = true
		}

		rec.Add(name, strings.TrimSpace(value), opaque)
		rec.rawLines = append(rec.rawLines, line)
		lastKey = strings.ToLower(name)
	}

	if rec.Len() == 0 {
		return nil, ErrEmptyBlock
	}
	return rec, nil
}
