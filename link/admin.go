package link

import (
	"github.com/rs/zerolog"

	"advault/directory"
	"advault/enrich"
)

// Per-variant admin tag prefixes, kept distinct so the viewer can filter a
// single class of principal.
func adminPrefix(c directory.Class) string {
	switch c {
	case directory.ClassGroup:
		return "#GroupIsAdmin"
	case directory.ClassComputer:
		return "#ComputerIsAdmin"
	default:
		return "#IsAdmin"
	}
}

// TagAdmins applies admin tags across the batch. It must run after linking:
// an object is admin when its admincount attribute is non-zero, or when a
// resolved parent's display name is one of the privileged group names.
// Groups with native admincount additionally taint their members
// transitively, so nested membership in an admin group is surfaced on every
// reachable object.
func (b *Batch) TagAdmins(privileged []string, logger zerolog.Logger) {
	for _, obj := range b.Objects {
		if hasAdminCount(obj) {
			enrich.AddTag(obj, adminPrefix(obj.Class)+" based on native admincount=1")
		}
		for _, parent := range obj.ParentRefs {
			if name := b.Display(parent); equalFoldAny(name, privileged) {
				enrich.AddTag(obj, adminPrefix(obj.Class)+" due to membership in well-known privileged group "+name)
			}
		}
	}

	for _, obj := range b.Objects {
		if obj.Class != directory.ClassGroup || !hasAdminCount(obj) {
			continue
		}
		visited := map[string]bool{obj.Identity: true}
		b.taintMembers(obj, obj.DisplayName, visited, logger)
	}
}

// taintMembers walks ChildRefs depth-first from an admin group. The visited
// set guards against membership cycles between nested groups.
func (b *Batch) taintMembers(group *directory.Object, origin string, visited map[string]bool, logger zerolog.Logger) {
	for _, ref := range group.ChildRefs {
		if visited[ref] {
			continue
		}
		visited[ref] = true

		member, ok := b.byIdentity[ref]
		if !ok {
			logger.Debug().Str("group", group.Identity).Str("member", ref).
				Msg("admin walk reached identity outside batch")
			continue
		}

		enrich.AddTag(member, adminPrefix(member.Class)+
			" based on group parentage tied to admincount=1, ultimately derived from membership in "+origin)
		if member.Class == directory.ClassGroup {
			b.taintMembers(member, origin, visited, logger)
		}
	}
}

func hasAdminCount(obj *directory.Object) bool {
	v, ok := obj.Attributes.FirstString("admincount")
	return ok && v != "" && v != "0"
}
