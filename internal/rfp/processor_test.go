package rfp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/llm"
	"rfp-intake/internal/models"
	"rfp-intake/internal/storage"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeAnalyzer struct {
	result *llm.AnalysisResult
	err    error
	calls  int
	got    string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) (*llm.AnalysisResult, error) {
	f.calls++
	f.got = text
	return f.result, f.err
}

func analysisFixture() *llm.AnalysisResult {
	res, err := llm.ParseAnalysis([]byte(`{"title":"Smart Parking","agency":"City Transport Dept","opportunityScore":64}`))
	if err != nil {
		panic(err)
	}
	return &res
}

func pdfUpload() Upload {
	return Upload{FileName: "rfp.pdf", MimeType: models.MimePDF, Size: 5, Data: []byte("%PDF-")}
}

func documentCount(t *testing.T, s storage.Store) int {
	t.Helper()
	docs, err := s.ListDocuments(context.Background())
	require.NoError(t, err)
	return len(docs)
}

func TestProcessSuccess(t *testing.T) {
	store := storage.NewMemoryStore()
	ex := &fakeExtractor{text: "Full RFP body\nwith two lines"}
	an := &fakeAnalyzer{result: analysisFixture()}
	p := NewProcessor(store, ex, an, 0, nil)

	doc, err := p.Process(context.Background(), pdfUpload())
	require.NoError(t, err)
	require.True(t, doc.Processed)
	require.Equal(t, "Smart Parking", *doc.Title)
	require.Equal(t, 64, *doc.OpportunityScore)
	require.Equal(t, "Full RFP body\nwith two lines", *doc.FullText)
	require.Equal(t, ex.text, an.got)
	require.NotEmpty(t, doc.KeyDates)
	require.NotNil(t, doc.Requirements)
	require.NotNil(t, doc.AIAnalysis)

	stored, err := store.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, doc, stored)
}

func TestProcessRejectsBeforeCreatingRecord(t *testing.T) {
	cases := []struct {
		name   string
		upload Upload
	}{
		{name: "invalid mime", upload: Upload{FileName: "notes.txt", MimeType: "text/plain", Size: 3, Data: []byte("abc")}},
		{name: "too large", upload: Upload{FileName: "big.pdf", MimeType: models.MimePDF, Size: DefaultMaxUploadBytes + 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			ex := &fakeExtractor{text: "x"}
			p := NewProcessor(store, ex, &fakeAnalyzer{result: analysisFixture()}, 0, nil)

			_, err := p.Process(context.Background(), tc.upload)
			require.True(t, apperr.IsKind(err, apperr.Validation))
			require.Equal(t, 0, documentCount(t, store))
			require.Zero(t, ex.calls)
		})
	}
}

func TestProcessStageFailureLeavesRecordUnprocessed(t *testing.T) {
	t.Run("whitespace extraction", func(t *testing.T) {
		store := storage.NewMemoryStore()
		an := &fakeAnalyzer{result: analysisFixture()}
		p := NewProcessor(store, NewExtractor(t.TempDir(), nil), an, 0, nil)
		p.extractor.(*Extractor).convertPDF = fakePDF("   \n  ")

		_, err := p.Process(context.Background(), pdfUpload())
		require.True(t, apperr.IsKind(err, apperr.Extraction))
		require.Zero(t, an.calls)

		doc, err := store.GetDocument(context.Background(), 1)
		require.NoError(t, err)
		require.False(t, doc.Processed)
		require.Nil(t, doc.Title)
		require.Nil(t, doc.FullText)
	})

	t.Run("analysis failure", func(t *testing.T) {
		store := storage.NewMemoryStore()
		an := &fakeAnalyzer{err: apperr.Wrap(apperr.Analysis, errors.New("status 429"), "Failed to analyze document")}
		p := NewProcessor(store, &fakeExtractor{text: "body"}, an, 0, nil)

		_, err := p.Process(context.Background(), pdfUpload())
		require.True(t, apperr.IsKind(err, apperr.Analysis))
		require.Contains(t, err.Error(), "status 429")
		require.Equal(t, 1, documentCount(t, store))

		doc, err := store.GetDocument(context.Background(), 1)
		require.NoError(t, err)
		require.False(t, doc.Processed)
	})
}

func TestProcessCreatesOneRecordPerAttempt(t *testing.T) {
	store := storage.NewMemoryStore()
	p := NewProcessor(store, &fakeExtractor{err: apperr.New(apperr.Extraction, "broken")}, &fakeAnalyzer{}, 0, nil)

	for i := 0; i < 3; i++ {
		_, err := p.Process(context.Background(), pdfUpload())
		require.Error(t, err)
	}
	require.Equal(t, 3, documentCount(t, store))
}

// Full pipeline with the real extractor and LLM client against a fake
// chat-completions endpoint.
func TestProcessWithChatService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := `{
			"title": "Parliamentary Chatbot Platform",
			"agency": "Council of Representatives – Kingdom of Bahrain",
			"rfpNumber": "COR/2025/17",
			"opportunityScore": 82,
			"keyDates": [{"event": "Submission deadline", "date": "2025-06-30", "icon": "check", "passed": false}],
			"requirements": {"technical": ["Arabic NLP"], "qualifications": ["5 years in GCC"]}
		}`
		resp := map[string]any{"choices": []map[string]any{{"message": map[string]string{"content": content}}}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	store := storage.NewMemoryStore()
	ex := NewExtractor(t.TempDir(), nil)
	ex.convertPDF = fakePDF("REQUEST FOR PROPOSAL\r\nCouncil of Representatives\r\n" + strings.Repeat("Scope. ", 10))
	an := llm.NewService(llm.Options{APIKey: "test-key", BaseURL: srv.URL}, nil)
	p := NewProcessor(store, ex, an, 0, nil)

	doc, err := p.Process(context.Background(), Upload{
		FileName: "cor-rfp.pdf",
		MimeType: models.MimePDF,
		Size:     8,
		Data:     []byte("%PDF-1.7"),
	})
	require.NoError(t, err)
	require.True(t, doc.Processed)
	require.Contains(t, *doc.Agency, "Council of Representatives")
	require.Equal(t, 82, doc.Score())
	require.Equal(t, "Strong Match", models.MatchLabel(doc))
	require.Equal(t, []string{}, doc.AIAnalysis.Strengths)
	require.NotContains(t, *doc.FullText, "\r")
	require.Equal(t, "Not specified", *doc.ContactPerson)
}

func fakePDF(text string) func(r io.Reader) (string, error) {
	return func(io.Reader) (string, error) { return text, nil }
}
