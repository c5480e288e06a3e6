package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/hoagie/internal/dbx"
)

const (
	userKey    = "session.user"
	loginAtKey = "session.login_at"
)

// Store persists the signed-in user between runs. Load returns (nil, nil)
// when nobody is signed in; LoginTime reports false in that case.
type Store interface {
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	Clear(ctx context.Context) error
	LoginTime(ctx context.Context) (time.Time, bool, error)
}

// MetadataStore keeps the session in the local metadata table.
type MetadataStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewMetadataStore(db *sql.DB) *MetadataStore {
	return &MetadataStore{db: db, now: time.Now}
}

func (s *MetadataStore) repo(q dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(q)
}

func (s *MetadataStore) Load(ctx context.Context) (*models.User, error) {
	b, err := s.repo(s.db).Get(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	return &u, nil
}

// Save writes the user and the login time in one transaction.
func (s *MetadataStore) Save(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, userKey, b); err != nil {
			return err
		}
		return r.Set(ctx, loginAtKey, []byte(s.now().UTC().Format(time.RFC3339)))
	})
}

func (s *MetadataStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, userKey, loginAtKey)
}

// LoginTime reports when the stored session was created.
func (s *MetadataStore) LoginTime(ctx context.Context) (time.Time, bool, error) {
	b, err := s.repo(s.db).Get(ctx, loginAtKey)
	if err != nil || len(b) == 0 {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, string(b))
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// MemoryStore is a Store that forgets everything on exit.
type MemoryStore struct {
	mu      sync.Mutex
	user    *models.User
	loginAt time.Time
}

func (m *MemoryStore) Load(context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *MemoryStore) Save(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.user = &cp
	m.loginAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.loginAt = time.Time{}
	return nil
}

func (m *MemoryStore) LoginTime(context.Context) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginAt, m.user != nil, nil
}
