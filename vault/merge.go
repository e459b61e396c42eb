package vault

import (
	"strings"

	"github.com/rs/zerolog"
)

// Marker line placed above preserved content when an existing document could
// not be parsed into sections.
const recoveredMarker = "Recovered content preserved from an earlier document:"

// Merge reconciles an existing document with freshly derived content.
// Accumulating sections take the ordered set union (existing order kept,
// genuinely new lines appended); derived sections are replaced outright so
// stale decodes never linger; analyst content is copied verbatim. The new
// document is untouched, and merging the same fresh input twice yields the
// same result as merging it once.
func Merge(existing, fresh *Document) *Document {
	return &Document{
		RawData:     unionLines(existing.RawData, fresh.RawData),
		Tags:        unionLines(existing.Tags, fresh.Tags),
		Members:     unionLines(existing.Members, fresh.Members),
		Parents:     unionLines(existing.Parents, fresh.Parents),
		UACValues:   append([]string(nil), fresh.UACValues...),
		Timestamps:  append([]string(nil), fresh.Timestamps...),
		UserDefined: append([]string(nil), existing.UserDefined...),
	}
}

// Reconcile merges fresh against previously stored text and returns the full
// replacement body. Empty stored text behaves exactly like overwrite. Stored
// text that fails section parsing is preserved whole, fenced inside the
// User Defined section, with the fresh sections rendered around it; analyst
// content is never discarded.
func Reconcile(stored string, fresh *Document, logger zerolog.Logger) string {
	if strings.TrimSpace(stored) == "" {
		return fresh.Render()
	}

	existing, err := Parse(stored)
	if err != nil {
		logger.Warn().Err(err).Msg("existing document unparseable, preserving verbatim")
		existing = &Document{UserDefined: fenceRecovered(stored)}
	}
	return Merge(existing, fresh).Render()
}

// fenceRecovered wraps unparseable text in a marked code fence so the next
// parse treats it as inert analyst content.
func fenceRecovered(stored string) []string {
	lines := []string{recoveredMarker, "```plaintext recovered"}
	lines = append(lines, splitLines(stored)...)
	return append(lines, fenceClose)
}

// unionLines keeps existing order and appends only lines not already
// present, by exact equality.
func unionLines(existing, fresh []string) []string {
	out := append([]string(nil), existing...)
	seen := make(map[string]bool, len(existing))
	for _, l := range existing {
		seen[l] = true
	}
	for _, l := range fresh {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
