package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"advault/directory"
	"advault/store"
)

func TestVaultStore_ReadMissing(t *testing.T) {
	s := store.NewVaultStore(t.TempDir())
	_, ok, err := s.Read(context.Background(), store.Ref{Class: directory.ClassUser, Name: "Nobody"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVaultStore_WriteThenRead(t *testing.T) {
	base := t.TempDir()
	s := store.NewVaultStore(base)
	ctx := context.Background()

	refs := []struct {
		ref  store.Ref
		path string
	}{
		{store.Ref{Class: directory.ClassUser, Name: "Alice"}, filepath.Join("USERS", "Alice.md")},
		{store.Ref{Class: directory.ClassGroup, Name: "Payroll"}, filepath.Join("GROUPS", "Payroll.md")},
		{store.Ref{Class: directory.ClassComputer, Name: "WS01"}, filepath.Join("COMPUTERS", "WS01.md")},
	}
	for _, tc := range refs {
		require.NoError(t, s.Write(ctx, tc.ref, "body of "+tc.ref.Name+"\n"))

		_, err := os.Stat(filepath.Join(base, tc.path))
		require.NoError(t, err, "expected file at %s", tc.path)

		body, ok, err := s.Read(ctx, tc.ref)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "body of "+tc.ref.Name+"\n", body)
	}
}

func TestVaultStore_OverwriteReplacesBody(t *testing.T) {
	s := store.NewVaultStore(t.TempDir())
	ctx := context.Background()
	ref := store.Ref{Class: directory.ClassUser, Name: "Alice"}

	require.NoError(t, s.Write(ctx, ref, "first\n"))
	require.NoError(t, s.Write(ctx, ref, "second\n"))

	body, ok, err := s.Read(ctx, ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second\n", body)
}

func TestMemStore(t *testing.T) {
	s := store.NewMemStore()
	ctx := context.Background()
	ref := store.Ref{Class: directory.ClassGroup, Name: "Payroll"}

	_, ok, err := s.Read(ctx, ref)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Write(ctx, ref, "hello\n"))
	body, ok, err := s.Read(ctx, ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello\n", body)
	require.Equal(t, 1, s.Len())
}
