// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exportlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUnchangedLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sum := ContentSum("* Deep Work\n")

	// Never exported.
	unchanged, err := s.Unchanged(ctx, "ITEM01", "org", sum)
	require.NoError(t, err)
	assert.False(t, unchanged)

	require.NoError(t, s.Put(ctx, Record{
		ItemID:      "ITEM01",
		Format:      "org",
		CitationKey: "smith2020",
		OutputPath:  "annotations/smith2020.org",
		ContentSum:  sum,
	}))

	// Same content skips.
	unchanged, err = s.Unchanged(ctx, "ITEM01", "org", sum)
	require.NoError(t, err)
	assert.True(t, unchanged)

	// Changed content re-exports.
	unchanged, err = s.Unchanged(ctx, "ITEM01", "org", ContentSum("* Deep Work\nnew annotation\n"))
	require.NoError(t, err)
	assert.False(t, unchanged)

	// A different format is tracked separately.
	unchanged, err = s.Unchanged(ctx, "ITEM01", "md", sum)
	require.NoError(t, err)
	assert.False(t, unchanged)
}

func TestPutUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := ContentSum("v1")
	second := ContentSum("v2")

	require.NoError(t, s.Put(ctx, Record{ItemID: "ITEM01", Format: "org", OutputPath: "a.org", ContentSum: first}))
	require.NoError(t, s.Put(ctx, Record{ItemID: "ITEM01", Format: "org", OutputPath: "a.org", ContentSum: second}))

	unchanged, err := s.Unchanged(ctx, "ITEM01", "org", second)
	require.NoError(t, err)
	assert.True(t, unchanged)

	unchanged, err = s.Unchanged(ctx, "ITEM01", "org", first)
	require.NoError(t, err)
	assert.False(t, unchanged)
}

func TestSummaryTotal(t *testing.T) {
	s := Summary{Written: 2, Skipped: 3, Failed: 1}
	assert.Equal(t, 6, s.Total())
}

func TestStoreReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	ctx := context.Background()
	sum := ContentSum("doc")

	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, Record{ItemID: "ITEM01", Format: "org", OutputPath: "a.org", ContentSum: sum}))
	require.NoError(t, s.Close())

	s2, err := NewStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	unchanged, err := s2.Unchanged(ctx, "ITEM01", "org", sum)
	require.NoError(t, err)
	assert.True(t, unchanged)
}
