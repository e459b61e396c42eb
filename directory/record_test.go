package directory_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"advault/directory"
)

func buildRecord(t *testing.T, lines []string) *directory.Record {
	t.Helper()
	rec, err := directory.BuildRecord(directory.RawBlock{Lines: lines}, ": ", zerolog.Nop())
	require.NoError(t, err)
	return rec
}

func TestBuildRecord_MultiValuedOrderPreserved(t *testing.T) {
	rec := buildRecord(t, []string{
		"cn: Payroll",
		"member: CN=Alice,DC=corp",
		"member: CN=Bob,DC=corp",
		"member: CN=Carol,DC=corp",
	})

	members := rec.Strings("member")
	require.Equal(t, []string{"CN=Alice,DC=corp", "CN=Bob,DC=corp", "CN=Carol,DC=corp"}, members)
}

func TestBuildRecord_SplitsOnFirstDelimiterOnly(t *testing.T) {
	rec := buildRecord(t, []string{"description: contact: helpdesk x: 1"})

	v, ok := rec.FirstString("description")
	require.True(t, ok)
	require.Equal(t, "contact: helpdesk x: 1", v)
}

func TestBuildRecord_KeysCaseInsensitiveDisplayCasingKept(t *testing.T) {
	rec := buildRecord(t, []string{"sAMAccountName: jsmith"})

	v, ok := rec.FirstString("samaccountname")
	require.True(t, ok)
	require.Equal(t, "jsmith", v)
	require.Equal(t, []string{"samaccountname"}, rec.Keys())
	require.Equal(t, []string{"sAMAccountName: jsmith"}, rec.RawLines())
}

func TestBuildRecord_OpaqueBase64Value(t *testing.T) {
	rec := buildRecord(t, []string{"objectguid:: 3q2+78r+uv4="})

	v, ok := rec.First("objectguid")
	require.True(t, ok)
	require.True(t, v.Opaque)
	require.Equal(t, "3q2+78r+uv4=", v.Raw)
	// The raw line stays exactly as captured.
	require.Equal(t, []string{"objectguid:: 3q2+78r+uv4="}, rec.RawLines())
}

func TestBuildRecord_ContinuationLineJoinsPreviousValue(t *testing.T) {
	rec := buildRecord(t, []string{
		"description: a very long",
		"wrapped description value",
		"cn: Alice",
	})

	v, _ := rec.FirstString("description")
	require.Equal(t, "a very long wrapped description value", v)
	require.Equal(t, []string{
		"description: a very long wrapped description value",
		"cn: Alice",
	}, rec.RawLines())
}

func TestBuildRecord_OrphanContinuationDropped(t *testing.T) {
	rec := buildRecord(t, []string{
		"orphan garbage with no delimiter",
		"cn: Alice",
	})

	require.False(t, rec.Has("orphan"))
	require.Equal(t, 1, rec.Len())
}

func TestBuildRecord_EmptyBlockFails(t *testing.T) {
	_, err := directory.BuildRecord(directory.RawBlock{Lines: []string{"no delimiter here"}}, ": ", zerolog.Nop())
	require.ErrorIs(t, err, directory.ErrEmptyBlock)
}

func TestBuildRecord_DuplicateKeyCountMatchesInput(t *testing.T) {
	rec := buildRecord(t, []string{
		"memberof: CN=A,DC=x",
		"cn: U",
		"memberof: CN=B,DC=x",
		"memberof: CN=A,DC=x",
	})
	// Duplicates are preserved, not collapsed, at the record layer.
	require.Len(t, rec.Strings("memberof"), 3)
}
