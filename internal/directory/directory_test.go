package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/store"
)

type CacheMock struct {
	mock.Mock
}

func (o *CacheMock) Get(ctx context.Context, key string) (string, error) {
	args := o.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (o *CacheMock) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := o.Called(ctx, key, value, ttl)
	return args.Error(0)
}

var players = []store.Player{
	{ID: "201142", FullName: "Kevin Durant"},
	{ID: "201939", FullName: "Stephen Curry"},
}

const snapshot = `[{"id":"201142","full_name":"Kevin Durant"},{"id":"201939","full_name":"Stephen Curry"}]`

func countingSource(calls *int, result []store.Player, err error) SourceFunc {
	return func(context.Context) ([]store.Player, error) {
		*calls++
		return result, err
	}
}

func TestLoadWithoutCache(t *testing.T) {
	var calls int
	loader := NewLoader("nba", countingSource(&calls, players, nil), nil, time.Hour, logging.Nop())

	dir, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, players, dir.Players())
	assert.Equal(t, 2, dir.Len())
	assert.Equal(t, 1, calls)
}

func TestLoadCacheMissStoresSnapshot(t *testing.T) {
	var calls int
	c := &CacheMock{}
	c.On("Get", mock.Anything, "directory:players:nba").Return("", cache.ErrMiss)
	c.On("Set", mock.Anything, "directory:players:nba", snapshot, 6*time.Hour).Return(nil)

	loader := NewLoader("nba", countingSource(&calls, players, nil), c, 6*time.Hour, logging.Nop())
	dir, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, players, dir.Players())
	assert.Equal(t, 1, calls)
	c.AssertExpectations(t)
}

func TestLoadCacheHitSkipsSource(t *testing.T) {
	var calls int
	c := &CacheMock{}
	c.On("Get", mock.Anything, "directory:players:atlas").Return(snapshot, nil)

	loader := NewLoader("atlas", countingSource(&calls, nil, errors.New("unreachable")), c, time.Hour, logging.Nop())
	dir, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, players, dir.Players())
	assert.Zero(t, calls)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadCacheFailuresFallBackToSource(t *testing.T) {
	var calls int
	c := &CacheMock{}
	c.On("Get", mock.Anything, mock.Anything).Return("not json", nil)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("read only replica"))

	loader := NewLoader("nba", countingSource(&calls, players, nil), c, time.Hour, logging.Nop())
	dir, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, players, dir.Players())
	assert.Equal(t, 1, calls)
}

func TestLoadSourceError(t *testing.T) {
	var calls int
	loader := NewLoader("nba", countingSource(&calls, nil, errors.New("timeout")), nil, time.Hour, logging.Nop())

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing nba players")
}

func TestLoadEmptySource(t *testing.T) {
	var calls int
	loader := NewLoader("atlas", countingSource(&calls, []store.Player{}, nil), nil, time.Hour, logging.Nop())

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestNewCopiesPlayers(t *testing.T) {
	src := []store.Player{{ID: "1", FullName: "A"}}
	dir := New(src)
	src[0].FullName = "B"
	assert.Equal(t, "A", dir.Players()[0].FullName)
}
