// File: internal/session/store.go
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Message is one conversation entry. The sequence is append-only per session.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is a persisted, named conversation thread.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// Meta is the listing view of a session document.
type Meta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Store persists one JSON document per session under a directory.
type Store struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewStore creates the session directory if needed and returns a Store.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{dir: dir, logger: logger.Named("sessions"), now: time.Now}, nil
}

// StartNew creates a new session with a timestamp-derived id, persists the
// empty document and returns it. An empty name gets a friendly default.
func (s *Store) StartNew(name string) (*Session, error) {
	now := s.now()
	if name == "" {
		name = now.Format("Sessão 02/01 15:04")
	}
	sess := &Session{
		ID:        "session-" + now.Format("20060102-150405"),
		Name:      name,
		CreatedAt: now.Format("2006-01-02 15:04:05"),
		Messages:  []Message{},
	}
	if err := s.Save(sess); err != nil {
		return nil, err
	}
	s.logger.Info("Started new session", zap.String("session_id", sess.ID))
	return sess, nil
}

// Save rewrites the session document. Persistence is synchronous and happens
// in the same order entries are produced.
func (s *Store) Save(sess *Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("session has no id")
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sess.ID, err)
	}
	if err := os.WriteFile(s.path(sess.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write session %s: %w", sess.ID, err)
	}
	return nil
}

// Load reads a session document by id.
func (s *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	if sess.ID == "" {
		sess.ID = id
	}
	if sess.Name == "" {
		sess.Name = sess.ID
	}
	return &sess, nil
}

// List returns the available sessions, newest first. Corrupt documents
// degrade to stem-named entries instead of failing the listing.
func (s *Store) List() []Meta {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var metas []Meta
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "session-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		stem := strings.TrimSuffix(name, ".json")
		meta := Meta{ID: stem, Name: stem}
		if data, err := os.ReadFile(filepath.Join(s.dir, name)); err == nil {
			var sess Session
			if err := json.Unmarshal(data, &sess); err == nil {
				if sess.ID != "" {
					meta.ID = sess.ID
				}
				if sess.Name != "" {
					meta.Name = sess.Name
				}
				meta.CreatedAt = sess.CreatedAt
			}
		}
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].CreatedAt > metas[j].CreatedAt })
	return metas
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
