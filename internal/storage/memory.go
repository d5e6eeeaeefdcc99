package storage

import (
	"context"
	"sync"
	"time"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/models"
)

// MemoryStore keeps records in process memory. Nothing survives a restart.
// Updates to the same id are last-write-wins; there is no versioning.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[int]*models.User
	documents map[int]*models.Document
	docOrder  []int

	nextUserID     int
	nextDocumentID int

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          make(map[int]*models.User),
		documents:      make(map[int]*models.Document),
		nextUserID:     1,
		nextDocumentID: 1,
		now:            time.Now,
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u models.NewUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return nil, apperr.Newf(apperr.Store, "username %q already exists", u.Username)
		}
	}

	user := &models.User{ID: s.nextUserID, Username: u.Username, Password: u.Password}
	s.nextUserID++
	s.users[user.ID] = user

	out := *user
	return &out, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "user %d not found", id)
	}
	out := *user
	return &out, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			out := *user
			return &out, nil
		}
	}
	return nil, apperr.Newf(apperr.NotFound, "user %q not found", username)
}

func (s *MemoryStore) CreateDocument(_ context.Context, d models.NewDocument) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &models.Document{
		ID:         s.nextDocumentID,
		FileName:   d.FileName,
		FileType:   d.FileType,
		FileSize:   d.FileSize,
		UploadedAt: s.now(),
		Processed:  false,
	}
	s.nextDocumentID++
	s.documents[doc.ID] = doc
	s.docOrder = append(s.docOrder, doc.ID)

	out := *doc
	return &out, nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id int) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "document %d not found", id)
	}
	out := *doc
	return &out, nil
}

// UpdateDocument replaces the patched fields and stores the merged record
// as a new value, so copies handed out earlier are never mutated.
func (s *MemoryStore) UpdateDocument(_ context.Context, id int, patch models.DocumentPatch) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "document %d not found", id)
	}

	merged := *doc
	patch.Apply(&merged)
	s.documents[id] = &merged

	out := merged
	return &out, nil
}

func (s *MemoryStore) ListDocuments(_ context.Context) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*models.Document, 0, len(s.docOrder))
	for _, id := range s.docOrder {
		out := *s.documents[id]
		docs = append(docs, &out)
	}
	return docs, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
