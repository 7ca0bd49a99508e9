package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, PutJSON(ctx, s, "planner:u1:MATH101", doc{Name: "math", Score: "70"}))
	require.NoError(t, PutJSON(ctx, s, "planner:u1:PHYS100", doc{Name: "physics"}))
	require.NoError(t, PutJSON(ctx, s, "planner:u2:MATH101", doc{Name: "other user"}))

	got, err := GetJSON[doc](ctx, s, "planner:u1:MATH101")
	require.NoError(t, err)
	assert.Equal(t, "70", got.Score)

	require.NoError(t, PutJSON(ctx, s, "planner:u1:MATH101", doc{Name: "math", Score: "85"}))
	got, err = GetJSON[doc](ctx, s, "planner:u1:MATH101")
	require.NoError(t, err)
	assert.Equal(t, "85", got.Score)

	keys, err := s.Keys(ctx, "planner:u1:")
	require.NoError(t, err)
	assert.Equal(t, []string{"planner:u1:MATH101", "planner:u1:PHYS100"}, keys)

	require.NoError(t, s.Delete(ctx, "planner:u1:MATH101"))
	_, err = GetJSON[doc](ctx, s, "planner:u1:MATH101")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "planner.db")
	s, err := OpenBolt(path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := GetJSON[doc](context.Background(), reopened, "planner:u1:PHYS100")
	require.NoError(t, err)
	assert.Equal(t, "physics", got.Name)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "planner:u1:MATH101", PlannerKey("u1", "  math101 "))
	assert.Equal(t, "subjects:u1", SubjectsKey("u1"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\_b\%c`, escapeLike("a_b%c"))
}
