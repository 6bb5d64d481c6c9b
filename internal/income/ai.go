package income

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// AIClient calls an OpenRouter-compatible chat API to parse income
// documents and verify name matches. Every call has a deterministic
// local fallback, so a missing key, timeout, or malformed model reply
// degrades to the local result instead of failing the upload.
type AIClient struct {
	client   *resty.Client
	model    string
	parser   *LocalParser
	verifier *LocalNameVerifier
	logger   *slog.Logger
}

// NewAIClient creates an AI-backed parser/verifier.
func NewAIClient(apiKey, model string, logger *slog.Logger) *AIClient {
	client := resty.New()
	client.SetBaseURL(openRouterBaseURL)
	client.SetTimeout(30 * time.Second)
	client.SetAuthToken(apiKey)

	return &AIClient{
		client:   client,
		model:    model,
		parser:   NewLocalParser(),
		verifier: NewLocalNameVerifier(),
		logger:   logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Parse extracts a Statement with the model, falling back to the local
// parser on any failure.
func (c *AIClient) Parse(ctx context.Context, filename string, data []byte) (Statement, error) {
	text := printableText(data)

	prompt := fmt.Sprintf(`Extract the employee name and monthly net salary from the salary slip text below.

Salary text:
%s

Respond ONLY with JSON: {"employee_name": "Full Name", "monthly_salary": number}`, text)

	reply, err := c.complete(ctx, prompt, 0.1)
	if err != nil {
		c.logger.Warn("AI salary parse failed, using local parser", "error", err)
		return c.parser.Parse(ctx, filename, data)
	}

	var parsed struct {
		EmployeeName  string  `json:"employee_name"`
		MonthlySalary float64 `json:"monthly_salary"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &parsed); err != nil || parsed.MonthlySalary <= 0 {
		c.logger.Warn("AI salary parse returned unusable reply, using local parser", "error", err)
		return c.parser.Parse(ctx, filename, data)
	}

	return Statement{
		EmployeeName:  parsed.EmployeeName,
		MonthlySalary: decimal.NewFromFloat(parsed.MonthlySalary).Round(2),
	}, nil
}

// VerifyNameMatch compares names with the model, falling back to the
// local verifier on any failure.
func (c *AIClient) VerifyNameMatch(ctx context.Context, profileName, extractedName string) (MatchResult, error) {
	prompt := fmt.Sprintf(`Compare these two names and decide whether they likely belong to the same person, allowing different name order, initials, and common spelling variations.

Profile name: %q
Document name: %q

Respond ONLY with JSON: {"match": true, "confidence": 0.95, "reason": "brief explanation"}`, profileName, extractedName)

	reply, err := c.complete(ctx, prompt, 0.3)
	if err != nil {
		c.logger.Warn("AI name verification failed, using local comparison", "error", err)
		return c.verifier.VerifyNameMatch(ctx, profileName, extractedName)
	}

	var result MatchResult
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &result); err != nil {
		c.logger.Warn("AI name verification returned unusable reply, using local comparison", "error", err)
		return c.verifier.VerifyNameMatch(ctx, profileName, extractedName)
	}
	return result, nil
}

func (c *AIClient) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: temperature,
			MaxTokens:   300,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat completion: status %d", resp.StatusCode())
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completion: empty reply")
	}
	return out.Choices[0].Message.Content, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
