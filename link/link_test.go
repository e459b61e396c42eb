package link_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"advault/directory"
	"advault/link"
)

func makeObject(t *testing.T, class directory.Class, lines []string) *directory.Object {
	t.Helper()
	rec, err := directory.BuildRecord(directory.RawBlock{Lines: lines}, ": ", zerolog.Nop())
	require.NoError(t, err)
	obj, err := directory.NewObject(rec, class, "cn")
	require.NoError(t, err)
	return obj
}

func TestNewBatch_LinksRefs(t *testing.T) {
	user := makeObject(t, directory.ClassUser, []string{
		"cn: John Smith",
		"distinguishedname: CN=John Smith,OU=Staff,DC=corp,DC=local",
		"memberof: CN=Payroll,OU=Groups,DC=corp,DC=local",
		"memberof: CN=IT,OU=Groups,DC=corp,DC=local",
		"memberof: CN=Payroll,OU=Groups,DC=corp,DC=local",
	})
	group := makeObject(t, directory.ClassGroup, []string{
		"cn: Payroll",
		"distinguishedname: CN=Payroll,OU=Groups,DC=corp,DC=local",
		"member: CN=John Smith,OU=Staff,DC=corp,DC=local",
	})

	batch := link.NewBatch([]*directory.Object{user, group}, link.Index{})

	require.Equal(t, []string{
		"CN=PAYROLL,OU=GROUPS,DC=CORP,DC=LOCAL",
		"CN=IT,OU=GROUPS,DC=CORP,DC=LOCAL",
	}, user.ParentRefs, "duplicate refs collapse, order kept")
	require.Equal(t, []string{"CN=JOHN SMITH,OU=STAFF,DC=CORP,DC=LOCAL"}, group.ChildRefs)

	got, ok := batch.Lookup("CN=PAYROLL,OU=GROUPS,DC=CORP,DC=LOCAL")
	require.True(t, ok)
	require.Same(t, group, got)
}

func TestBatch_DisplayResolution(t *testing.T) {
	group := makeObject(t, directory.ClassGroup, []string{
		"cn: Payroll",
		"distinguishedname: CN=Payroll,OU=Groups,DC=corp,DC=local",
	})
	known := link.Index{"CN=OLD GUARD,OU=GROUPS,DC=CORP,DC=LOCAL": "Old Guard"}
	batch := link.NewBatch([]*directory.Object{group}, known)

	// Current batch wins.
	require.Equal(t, "Payroll", batch.Display("CN=PAYROLL,OU=GROUPS,DC=CORP,DC=LOCAL"))
	// Prior-run index next.
	require.Equal(t, "Old Guard", batch.Display("CN=OLD GUARD,OU=GROUPS,DC=CORP,DC=LOCAL"))
	// Dangling ref falls back to the embedded CN.
	require.Equal(t, "GHOSTS", batch.Display("CN=GHOSTS,OU=GROUPS,DC=CORP,DC=LOCAL"))
	// No CN at all renders verbatim.
	require.Equal(t, "SOMETHING", batch.Display("SOMETHING"))
}

func TestTagAdmins_AdminCountAndPrivilegedParents(t *testing.T) {
	user := makeObject(t, directory.ClassUser, []string{
		"cn: A Dude",
		"distinguishedname: CN=A Dude,OU=Staff,DC=corp,DC=local",
		"memberof: CN=Domain Admins,CN=Users,DC=corp,DC=local",
	})
	flagged := makeObject(t, directory.ClassUser, []string{
		"cn: Burned",
		"distinguishedname: CN=Burned,OU=Staff,DC=corp,DC=local",
		"admincount: 1",
	})
	plain := makeObject(t, directory.ClassUser, []string{
		"cn: Plain",
		"distinguishedname: CN=Plain,OU=Staff,DC=corp,DC=local",
		"admincount: 0",
	})

	batch := link.NewBatch([]*directory.Object{user, flagged, plain}, link.Index{})
	batch.TagAdmins([]string{"Domain Admins", "Administrators"}, zerolog.Nop())

	require.Contains(t, user.Tags, "#IsAdmin due to membership in well-known privileged group DOMAIN ADMINS")
	require.Contains(t, flagged.Tags, "#IsAdmin based on native admincount=1")
	require.Empty(t, plain.Tags)
}

func TestTagAdmins_RecursiveGroupWalkSurvivesCycles(t *testing.T) {
	admins := makeObject(t, directory.ClassGroup, []string{
		"cn: Tier Zero",
		"distinguishedname: CN=Tier Zero,OU=Groups,DC=corp,DC=local",
		"admincount: 1",
		"member: CN=Nested,OU=Groups,DC=corp,DC=local",
	})
	nested := makeObject(t, directory.ClassGroup, []string{
		"cn: Nested",
		"distinguishedname: CN=Nested,OU=Groups,DC=corp,DC=local",
		"member: CN=Tier Zero,OU=Groups,DC=corp,DC=local",
		"member: CN=Deep User,OU=Staff,DC=corp,DC=local",
		"member: CN=Deep Box,OU=Servers,DC=corp,DC=local",
	})
	deepUser := makeObject(t, directory.ClassUser, []string{
		"cn: Deep User",
		"distinguishedname: CN=Deep User,OU=Staff,DC=corp,DC=local",
	})
	deepBox := makeObject(t, directory.ClassComputer, []string{
		"cn: Deep Box",
		"distinguishedname: CN=Deep Box,OU=Servers,DC=corp,DC=local",
	})

	batch := link.NewBatch([]*directory.Object{admins, nested, deepUser, deepBox}, link.Index{})
	batch.TagAdmins(nil, zerolog.Nop())

	require.Contains(t, admins.Tags, "#GroupIsAdmin based on native admincount=1")
	require.Contains(t, nested.Tags,
		"#GroupIsAdmin based on group parentage tied to admincount=1, ultimately derived from membership in Tier Zero")
	require.Contains(t, deepUser.Tags,
		"#IsAdmin based on group parentage tied to admincount=1, ultimately derived from membership in Tier Zero")
	require.Contains(t, deepBox.Tags,
		"#ComputerIsAdmin based on group parentage tied to admincount=1, ultimately derived from membership in Tier Zero")
}
