// Package vault models per-object documents as structured sections and
// implements the smart-merge engine over them. Merging is an explicit
// diff-and-reconcile over parsed sections, never text concatenation, which
// is what makes idempotence hold by construction.
package vault

import (
	"advault/directory"
)

// Section headers in render order. The viewer keys off these exact strings.
const (
	headerRawData     = "# Raw Data:"
	headerTags        = "# Tags:"
	headerMembers     = "# Members:"
	headerParents     = "# Parents:"
	headerUAC         = "# UserAccountControl Values:"
	headerTimestamps  = "# Clean Timestamps:"
	headerUserDefined = "# User Defined:"

	rawFenceOpen = "```plaintext raw"
	fenceClose   = "```"
)

// Document is the structured content of one object's note. RawData, Tags,
// Members and Parents accumulate across runs; UACValues and Timestamps are
// derived and recomputed wholesale; UserDefined belongs to the analyst and
// is never touched by machine merges.
type Document struct {
	RawData     []string
	Tags        []string
	Members     []string
	Parents     []string
	UACValues   []string
	Timestamps  []string
	UserDefined []string
}

// WikiLink renders a cross-reference token the viewer's graph follows, even
// when the target note does not exist yet.
func WikiLink(name string) string {
	return "[[" + name + "]]"
}

// UACLink renders a link into the shared userAccountControl reference note.
func UACLink(flag string) string {
	return "[[UserAccountControlValues#" + flag + "]]"
}

// FromObject renders the derived document for a freshly enriched and linked
// object. display resolves a ref identity to its display name.
func FromObject(obj *directory.Object, display func(ref string) string) *Document {
	d := &Document{
		RawData: obj.Attributes.RawLines(),
		Tags:    append([]string(nil), obj.Tags...),
	}
	for _, ref := range obj.ChildRefs {
		d.Members = appendUnique(d.Members, WikiLink(display(ref)))
	}
	for _, ref := range obj.ParentRefs {
		d.Parents = appendUnique(d.Parents, WikiLink(display(ref)))
	}
	for _, flag := range obj.UACFlags {
		d.UACValues = append(d.UACValues, UACLink(flag))
	}
	for _, ts := range obj.Timestamps {
		d.Timestamps = append(d.Timestamps, ts.Attr+": "+ts.Value)
	}
	return d
}

func appendUnique(lines []string, line string) []string {
	for _, l := range lines {
		if l == line {
			return lines
		}
	}
	return append(lines, line)
}
