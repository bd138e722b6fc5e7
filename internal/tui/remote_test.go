package tui

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/errors"
	"github.com/lgbarn/chessd/internal/httpapi"
	"github.com/lgbarn/chessd/internal/match"
	"github.com/lgbarn/chessd/internal/store"
	"github.com/lgbarn/chessd/internal/testutil"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mgr := match.NewManager(store.NewMemoryStore(), zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewRouter(zerolog.Nop(), mgr, time.Second))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client())
}

func TestRemoteSession_CreateAndMove(t *testing.T) {
	ctx := context.Background()
	s, err := newTestClient(t).Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.NotEmpty(t, s.Token(chess.White))
	assert.NotEqual(t, s.Token(chess.White), s.Token(chess.Black))
	assert.Equal(t, chess.White, s.Game().Turn())
	assert.Empty(t, s.LastMove())

	require.NoError(t, s.Move(ctx, testutil.Mv(t, "e2e4")))
	require.NoError(t, s.Move(ctx, testutil.Mv(t, "e7e5")))
	assert.Equal(t, "e7e5", s.LastMove())
	assert.Equal(t, chess.White, s.Game().Turn())

	_, ok := s.Game().Board().Get(testutil.Sq(t, "e4"))
	assert.True(t, ok)
}

func TestRemoteSession_Errors(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	s, err := client.Create(ctx)
	require.NoError(t, err)

	err = s.Move(ctx, testutil.Mv(t, "e2e5"))
	assert.ErrorIs(t, err, errors.ErrIllegalMove)

	err = s.Move(ctx, testutil.Mv(t, "e4e5"))
	assert.ErrorIs(t, err, errors.ErrGameNotFound, "no piece maps to 404")

	_, err = client.Join(ctx, uuid.New(), "token")
	assert.ErrorIs(t, err, errors.ErrGameNotFound)
}

func TestRemoteSession_Join(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	host, err := client.Create(ctx)
	require.NoError(t, err)

	black, err := client.Join(ctx, host.ID(), host.Token(chess.Black))
	require.NoError(t, err)

	err = black.Move(ctx, testutil.Mv(t, "e2e4"))
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	require.NoError(t, host.Move(ctx, testutil.Mv(t, "e2e4")))
	require.NoError(t, black.Move(ctx, testutil.Mv(t, "c7c5")))
	assert.Equal(t, "c7c5", black.LastMove())
}

func TestRemoteSession_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := newTestClient(t)
	host, err := client.Create(ctx)
	require.NoError(t, err)
	viewer, err := client.Join(ctx, host.ID(), "")
	require.NoError(t, err)

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- viewer.Watch(ctx, func() { changed <- struct{}{} })
	}()

	wait := func() {
		t.Helper()
		select {
		case <-changed:
		case <-time.After(2 * time.Second):
			t.Fatal("no update from watch")
		}
	}
	wait() // snapshot

	require.NoError(t, host.Move(ctx, testutil.Mv(t, "d2d4")))
	wait()
	assert.Equal(t, "d2d4", viewer.LastMove())
	assert.Equal(t, chess.Black, viewer.Game().Turn())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestRemoteSession_DrivesModel(t *testing.T) {
	s, err := newTestClient(t).Create(context.Background())
	require.NoError(t, err)

	m := NewModel(s)
	playKeys(t, m, "g1", "f3")
	assert.Empty(t, m.Message())
	assert.Equal(t, "g1f3", s.LastMove())
	assert.Equal(t, "BLACK to move", m.Status())
}
