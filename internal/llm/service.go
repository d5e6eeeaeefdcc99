package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"rfp-intake/internal/apperr"
	pkghttp "rfp-intake/pkg/http"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	groqBaseURL   = "https://api.groq.com/openai/v1"

	temperature = 0.4
	maxTokens   = 2000
)

type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string // overrides the provider default, e.g. for a proxy
	Timeout  time.Duration
}

// Service turns extracted RFP text into a normalized AnalysisResult using an
// OpenAI-compatible chat completions API.
type Service struct {
	provider Provider
	apiKey   string
	model    string
	baseURL  string
	client   *pkghttp.Client
	log      *zap.Logger
}

func NewService(opts Options, log *zap.Logger) *Service {
	provider := Provider(strings.ToLower(opts.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		if provider == ProviderGroq {
			baseURL = groqBaseURL
		} else {
			baseURL = openAIBaseURL
		}
	}

	model := opts.Model
	if model == "" {
		model = "gpt-4o"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		provider: provider,
		apiKey:   opts.APIKey,
		model:    model,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   pkghttp.NewClient(timeout),
		log:      log.Named("llm"),
	}
}

// Analyze sends the first MaxPromptChars characters of text to the model and
// returns the validated, normalized result. Every failure is an Analysis error.
func (s *Service) Analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	if s.apiKey == "" {
		return nil, apperr.New(apperr.Analysis, "Failed to analyze document: LLM API key is not configured")
	}

	truncated := truncateRunes(text, MaxPromptChars)
	s.log.Info("analysis started",
		zap.String("provider", string(s.provider)),
		zap.String("model", s.model),
		zap.Int("text_len", len(text)),
		zap.Int("sent_len", len(truncated)),
	)

	start := time.Now()
	content, err := s.callChat(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(userPromptTemplate, truncated)},
	})
	if err != nil {
		s.log.Error("analysis request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, apperr.Wrap(apperr.Analysis, err, "Failed to analyze document")
	}
	if strings.TrimSpace(content) == "" {
		s.log.Error("analysis response had no content", zap.Duration("elapsed", time.Since(start)))
		return nil, apperr.New(apperr.Analysis, "Failed to analyze document: no content in the AI response")
	}

	result, err := ParseAnalysis([]byte(content))
	if err != nil {
		s.log.Error("analysis response rejected", zap.Error(err), zap.Int("content_len", len(content)))
		return nil, apperr.Wrap(apperr.Analysis, err, "Failed to analyze document")
	}

	s.log.Info("analysis completed",
		zap.String("title", result.Title),
		zap.String("agency", result.Agency),
		zap.Int("opportunity_score", result.OpportunityScore),
		zap.Int("key_dates", len(result.KeyDates)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &result, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Service) callChat(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", s.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", s.provider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s API error: %d: %s", s.provider, resp.StatusCode, snippet(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode %s response: %w", s.provider, err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("%s error: %s", s.provider, result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", s.provider)
	}

	return result.Choices[0].Message.Content, nil
}

func snippet(b []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
