package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "origin")
		state.Context[domain.KeyOriginStation] = "MADRID-PUERTA DE ATOCHA"
		state.Context[domain.KeyReturn] = true

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, state.SessionID, loaded.SessionID)
		assert.Equal(t, "MADRID-PUERTA DE ATOCHA", loaded.Context[domain.KeyOriginStation])
		assert.Equal(t, true, loaded.Context[domain.KeyReturn])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Mutating Loaded State Does Not Leak", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewState(sessionID, "origin")))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Context["leak"] = "yes"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.NotContains(t, again.Context, "leak")
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "origin"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "origin"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "origin"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunLastRequestContract verifies the single-snapshot semantics of a LastRequestStore.
func RunLastRequestContract(t *testing.T, store LastRequestStore) {
	ctx := context.Background()

	t.Run("Load Before Save", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrNoLastRequest)
	})

	t.Run("Save and Load", func(t *testing.T) {
		req := domain.SearchRequest{
			OriginStation:      "MADRID-PUERTA DE ATOCHA",
			DestinationStation: "BARCELONA-SANTS",
			DepartureDate:      "24-12-2026",
			Return:             true,
			ReturnDate:         "02-01-2027",
			MaxPrice:           60,
			MaxDuration:        3.5,
			OutboundEarliest:   "08:00",
			OutboundLatest:     "12:00",
		}
		require.NoError(t, store.Save(ctx, req))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, req, loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		req := domain.SearchRequest{
			OriginStation:      "SEVILLA-SANTA JUSTA",
			DestinationStation: "CORDOBA",
			DepartureDate:      "05-01-2027",
		}
		require.NoError(t, store.Save(ctx, req))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, req, loaded)
	})
}

// RunSearchGuardContract verifies the single-flag semantics of a SearchGuard.
// Guards that detect a lost lease by polling must do so within two seconds.
func RunSearchGuardContract(t *testing.T, guard SearchGuard) {
	ctx := context.Background()

	t.Run("Cancel Without Search", func(t *testing.T) {
		canceled, err := guard.Cancel(ctx)
		require.NoError(t, err)
		assert.False(t, canceled)
	})

	t.Run("Begin Is Exclusive", func(t *testing.T) {
		lease, err := guard.Begin(ctx, "chat-1")
		require.NoError(t, err)

		active, err := guard.Active(ctx)
		require.NoError(t, err)
		assert.True(t, active)

		_, err = guard.Begin(ctx, "chat-2")
		assert.ErrorIs(t, err, domain.ErrSearchInProgress)

		require.NoError(t, lease.Release(ctx))

		active, err = guard.Active(ctx)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("Cancel Signals Holder", func(t *testing.T) {
		lease, err := guard.Begin(ctx, "chat-1")
		require.NoError(t, err)

		canceled, err := guard.Cancel(ctx)
		require.NoError(t, err)
		assert.True(t, canceled)

		select {
		case <-lease.Lost():
		case <-time.After(2 * time.Second):
			t.Fatal("lease was not notified of cancellation")
		}

		held, err := lease.Held(ctx)
		require.NoError(t, err)
		assert.False(t, held)

		// A stale lease must not lower a flag raised afterwards.
		next, err := guard.Begin(ctx, "chat-2")
		require.NoError(t, err)
		require.NoError(t, lease.Release(ctx))

		active, err := guard.Active(ctx)
		require.NoError(t, err)
		assert.True(t, active)

		held, err = next.Held(ctx)
		require.NoError(t, err)
		assert.True(t, held)

		require.NoError(t, next.Release(ctx))
	})
}
