package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/fixtures"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func sampleSnapshot() *machine.Snapshot {
	return &machine.Snapshot{
		Machine: fixtures.LastSymbolName,
		State:   3,
		Head:    2,
		Tape:    []int{1, 3, 3, 2},
		Status:  domain.StatusRunning,
		Clock:   domain.Clock{Time: 2, TimeLimit: 10, Space: 4},
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSnapshotStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	original := sampleSnapshot()

	require.NoError(t, secureStore.Save(ctx, "secret-run", original))

	// The underlying store only sees the envelope.
	stored, err := underlyingStore.Load(ctx, "secret-run")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed)
	assert.Nil(t, stored.Tape)
	assert.Zero(t, stored.Head)
	assert.Equal(t, original.Machine, stored.Machine)
	assert.Equal(t, original.Status, stored.Status)
	assert.Equal(t, original.Clock, stored.Clock)

	// A sealed envelope is not restorable on its own.
	_, err = fixtures.LastSymbol().Restore(stored)
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)

	loaded, err := secureStore.Load(ctx, "secret-run")
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	_, err = fixtures.LastSymbol().Restore(loaded)
	assert.NoError(t, err)
}

func TestEncryptionMiddleware_RefusesPlainSnapshots(t *testing.T) {
	underlyingStore := memory.NewStore()
	require.NoError(t, underlyingStore.Save(context.Background(), "plain", sampleSnapshot()))

	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := mw(underlyingStore).Load(context.Background(), "plain")
	assert.ErrorContains(t, err, "missing encrypted data envelope")
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	runID := "rotation-run"
	original := sampleSnapshot()

	// 1. Save with OLD key
	require.NoError(t, secureStoreOld.Save(ctx, runID, original))

	// 2. Load with NEW key (Active) + OLD key (Fallback)
	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, runID)
	require.NoError(t, err, "Load with rotated key failed")
	assert.Equal(t, original, loaded)

	// 3. Save again, now sealed with the NEW key
	loaded.Clock.Time = 9
	require.NoError(t, secureStoreNew.Save(ctx, runID, loaded))

	// 4. The OLD key alone can no longer open it
	_, err = secureStoreOld.Load(ctx, runID)
	assert.Error(t, err)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)

	fromHex, err := middleware.ParseKey(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, fromHex)

	fromBase64, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, fromBase64)

	_, err = middleware.ParseKey("c2hvcnQ=")
	assert.Error(t, err)
}

type recordingStore struct {
	ports.SnapshotStore
	name  string
	calls *[]string
}

func (s recordingStore) Save(ctx context.Context, runID string, snap *machine.Snapshot) error {
	*s.calls = append(*s.calls, s.name)
	return s.SnapshotStore.Save(ctx, runID, snap)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	record := func(name string) middleware.Middleware {
		return func(next ports.SnapshotStore) ports.SnapshotStore {
			return recordingStore{SnapshotStore: next, name: name, calls: &calls}
		}
	}

	store := middleware.Chain(memory.NewStore(), record("outer"), record("inner"))
	require.NoError(t, store.Save(context.Background(), "r", sampleSnapshot()))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}
