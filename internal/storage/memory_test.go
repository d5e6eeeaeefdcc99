package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/models"
)

func strPtr(s string) *string { return &s }

func newDoc(name string) models.NewDocument {
	return models.NewDocument{FileName: name, FileType: models.MimePDF, FileSize: 1024}
}

func TestMemoryStoreCreateDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	prev := 0
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		doc, err := s.CreateDocument(ctx, newDoc(name))
		require.NoError(t, err)
		require.Greater(t, doc.ID, prev)
		require.False(t, doc.Processed)
		require.Equal(t, fixed, doc.UploadedAt)
		require.Nil(t, doc.Title)
		require.Nil(t, doc.OpportunityScore)
		prev = doc.ID
	}

	first, err := s.GetDocument(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "a.pdf", first.FileName)
}

func TestMemoryStoreGetDocumentNotFound(t *testing.T) {
	_, err := NewMemoryStore().GetDocument(context.Background(), 42)
	require.Error(t, err)
	require.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestMemoryStoreUpdateDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc, err := s.CreateDocument(ctx, newDoc("rfp.pdf"))
	require.NoError(t, err)

	processed := true
	score := 80
	updated, err := s.UpdateDocument(ctx, doc.ID, models.DocumentPatch{
		Processed:        &processed,
		Title:            strPtr("Chatbot"),
		OpportunityScore: &score,
		Requirements:     &models.Requirements{Technical: []string{"NLP"}, Qualifications: []string{}},
	})
	require.NoError(t, err)
	require.True(t, updated.Processed)
	require.Equal(t, "Chatbot", *updated.Title)
	require.Equal(t, "rfp.pdf", updated.FileName)

	// nested objects are replaced whole, not merged
	updated, err = s.UpdateDocument(ctx, doc.ID, models.DocumentPatch{
		Requirements: &models.Requirements{Qualifications: []string{"ISO 27001"}},
	})
	require.NoError(t, err)
	require.Nil(t, updated.Requirements.Technical)
	require.Equal(t, []string{"ISO 27001"}, updated.Requirements.Qualifications)
	require.Equal(t, "Chatbot", *updated.Title)
	require.Equal(t, 80, updated.Score())

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, updated, got)
}

func TestMemoryStoreUpdateUnknownDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.CreateDocument(ctx, newDoc("rfp.pdf"))
	require.NoError(t, err)
	before, err := s.ListDocuments(ctx)
	require.NoError(t, err)

	_, err = s.UpdateDocument(ctx, 99, models.DocumentPatch{Title: strPtr("ghost")})
	require.True(t, apperr.IsKind(err, apperr.NotFound))

	after, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc, err := s.CreateDocument(ctx, newDoc("rfp.pdf"))
	require.NoError(t, err)

	doc.FileName = "changed.pdf"
	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "rfp.pdf", got.FileName)
}

func TestMemoryStoreListDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.NotNil(t, docs)
	require.Empty(t, docs)

	for _, name := range []string{"one.pdf", "two.docx", "three.pdf"} {
		_, err := s.CreateDocument(ctx, newDoc(name))
		require.NoError(t, err)
	}
	_, err = s.UpdateDocument(ctx, 1, models.DocumentPatch{Title: strPtr("first")})
	require.NoError(t, err)

	docs, err = s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, "one.pdf", docs[0].FileName)
	require.Equal(t, "two.docx", docs[1].FileName)
	require.Equal(t, "three.pdf", docs[2].FileName)
}

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u, err := s.CreateUser(ctx, models.NewUser{Username: "analyst", Password: "hash"})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)

	_, err = s.CreateUser(ctx, models.NewUser{Username: "analyst", Password: "other"})
	require.True(t, apperr.IsKind(err, apperr.Store))

	got, err := s.GetUserByUsername(ctx, "analyst")
	require.NoError(t, err)
	require.Equal(t, u, got)

	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "hash", got.Password)

	_, err = s.GetUser(ctx, 7)
	require.True(t, apperr.IsKind(err, apperr.NotFound))
	_, err = s.GetUserByUsername(ctx, "nobody")
	require.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestStoreImplementations(t *testing.T) {
	var _ Store = NewMemoryStore()
	var _ Store = (*DB)(nil)
}

func TestJSONParam(t *testing.T) {
	v, err := jsonParam(nil, true)
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = jsonParam([]models.KeyDate{{Event: "Deadline", Date: "2025-05-01", Icon: "check"}}, false)
	require.NoError(t, err)
	require.JSONEq(t, `[{"event":"Deadline","date":"2025-05-01","icon":"check","passed":false}]`, v.(string))
}
