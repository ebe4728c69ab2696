// File: internal/session/store_test.go
package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestStore_StartNewAndLoad(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

	sess, err := store.StartNew("")
	require.NoError(t, err)
	assert.Equal(t, "session-20260314-093000", sess.ID)
	assert.Equal(t, "Sessão 14/03 09:30", sess.Name)
	assert.Equal(t, "2026-03-14 09:30:00", sess.CreatedAt)

	sess.Messages = append(sess.Messages,
		Message{Role: "user", Content: "olá"},
		Message{Role: "assistant", Content: "oi, em que posso ajudar?"},
	)
	require.NoError(t, store.Save(sess))

	back, err := store.Load(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Name, back.Name)
	require.Len(t, back.Messages, 2)
	assert.Equal(t, "olá", back.Messages[0].Content)
}

func TestStore_SaveRejectsMissingID(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Save(nil))
	assert.Error(t, store.Save(&Session{}))
}

func TestStore_LoadMissingSession(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("session-00000000-000000")
	assert.Error(t, err)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	stamps := []time.Time{
		time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		ts := ts
		store.now = func() time.Time { return ts }
		_, err := store.StartNew("sessão " + ts.Format("02"))
		require.NoError(t, err)
	}

	metas := store.List()
	require.Len(t, metas, 3)
	assert.Equal(t, "sessão 03", metas[0].Name)
	assert.Equal(t, "sessão 02", metas[1].Name)
	assert.Equal(t, "sessão 01", metas[2].Name)
}

func TestStore_ListDegradesOnCorruptDocument(t *testing.T) {
	store := newTestStore(t)
	_, err := store.StartNew("válida")
	require.NoError(t, err)

	corrupt := filepath.Join(store.dir, "session-19990101-000000.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{broken"), 0o644))

	metas := store.List()
	require.Len(t, metas, 2)

	var names []string
	for _, m := range metas {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "válida")
	assert.Contains(t, names, "session-19990101-000000")
}

func TestStore_ListIgnoresForeignFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(store.dir, "session-dir"), 0o755))

	assert.Empty(t, store.List())
}
