package job

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewJobIsPending(t *testing.T) {
	j := New("relax", DefaultTTL)
	require.NotEmpty(t, j.ID)
	require.Equal(t, "relax", j.Operation)
	require.Equal(t, StatePending, j.State)
	require.False(t, j.IsExpired())
}

func TestJobIDsAreUnique(t *testing.T) {
	a := New("relax", DefaultTTL)
	b := New("relax", DefaultTTL)
	require.NotEqual(t, a.ID, b.ID)
}

func TestCompleteAndFail(t *testing.T) {
	j := New("minima", DefaultTTL)

	j.Complete(json.RawMessage(`{"count":3}`))
	require.Equal(t, StateDone, j.State)
	require.JSONEq(t, `{"count":3}`, string(j.Result))

	k := New("minima", DefaultTTL)
	k.Fail("surface not found")
	require.Equal(t, StateFailed, k.State)
	require.Equal(t, "surface not found", k.Error)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	j := New("relax", DefaultTTL)
	require.NoError(t, store.Set(ctx, j))

	got, err := store.Get(ctx, j.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, j.ID, got.ID)

	// stored copy is isolated from later mutation
	j.Fail("boom")
	got, err = store.Get(ctx, j.ID)
	require.NoError(t, err)
	require.Equal(t, StatePending, got.State)
}

func TestMemoryStoreMissingJob(t *testing.T) {
	got, err := NewMemoryStore().Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	j := New("relax", -time.Minute)
	require.NoError(t, store.Set(ctx, j))

	got, err := store.Get(ctx, j.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	live := New("relax", DefaultTTL)
	require.NoError(t, store.Set(ctx, live))
	require.NoError(t, store.Cleanup(ctx))

	require.Nil(t, store.jobs[j.ID])
	require.NotNil(t, store.jobs[live.ID])
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	j := New("relax", DefaultTTL)
	require.NoError(t, store.Set(ctx, j))
	require.NoError(t, store.Delete(ctx, j.ID))

	got, err := store.Get(ctx, j.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}
