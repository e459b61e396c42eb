// Package link resolves membership attributes into a cross-reference graph
// keyed by normalized identity. References stay weak strings the whole way:
// a ref may point at an object from a prior run, or at nothing at all, and
// both render as links the external viewer resolves visually.
package link

import (
	"strings"

	"advault/directory"
)

// Index maps normalized identity to display name. The caller supplies one
// covering objects rendered in prior runs so old refs still resolve.
type Index map[string]string

// Batch holds one ingestion run's linked objects. Building a batch is the
// barrier between per-object enrichment and anything needing cross-object
// resolution.
type Batch struct {
	Objects []*directory.Object

	byIdentity map[string]*directory.Object
	known      Index
}

// NewBatch links every object's member / memberof values into ChildRefs and
// ParentRefs and indexes the batch by identity. Refs to identities absent
// from both the batch and the known index are kept verbatim.
func NewBatch(objs []*directory.Object, known Index) *Batch {
	b := &Batch{
		Objects:    objs,
		byIdentity: make(map[string]*directory.Object, len(objs)),
		known:      known,
	}
	for _, obj := range objs {
		b.byIdentity[obj.Identity] = obj
	}
	for _, obj := range objs {
		obj.ParentRefs = normalizeRefs(obj.Attributes.Strings("memberof"))
		obj.ChildRefs = normalizeRefs(obj.Attributes.Strings("member"))
	}
	return b
}

// Lookup returns the batch object with the given identity.
func (b *Batch) Lookup(identity string) (*directory.Object, bool) {
	obj, ok := b.byIdentity[identity]
	return obj, ok
}

// Display resolves an identity to a display name: current batch first, then
// the prior-run index, then the CN embedded in the identity itself. A ref
// that yields none of those renders verbatim as a dangling token.
func (b *Batch) Display(identity string) string {
	if obj, ok := b.byIdentity[identity]; ok {
		return obj.DisplayName
	}
	if name, ok := b.known[identity]; ok {
		return name
	}
	if cn, ok := directory.CommonName(identity); ok {
		return cn
	}
	return identity
}

func normalizeRefs(values []string) []string {
	var refs []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		id := directory.NormalizeIdentity(v)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, id)
	}
	return refs
}

func equalFoldAny(name string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
