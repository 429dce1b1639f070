package titler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the OpenRouter chat-completions URL.
const DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouter implements Generator against the OpenRouter chat API.
type OpenRouter struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewOpenRouter creates an OpenRouter generator. An empty endpoint selects
// DefaultEndpoint; timeout bounds the whole request.
func NewOpenRouter(endpoint, apiKey, model string, timeout time.Duration) *OpenRouter {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenRouter{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for a title. Q&A-shaped content gets a prompt
// that titles the subject matter rather than the question format. Responses
// longer than 60 chars fall back to the Simple rule.
func (o *OpenRouter) Generate(ctx context.Context, content string) (string, error) {
	prompt := titlePrompt(content)

	body, err := json.Marshal(chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   50,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("titler: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("titler: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("titler: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("titler: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("titler: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("titler: empty response")
	}

	title := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if title == "" || len(title) > 60 {
		return Simple(content), nil
	}
	return title, nil
}

func titlePrompt(content string) string {
	if strings.HasPrefix(strings.TrimSpace(content), "Q:") && strings.Contains(content, "\n\nA:") {
		return "Analyze this Q&A and create a concise, informative title (max 50 chars) " +
			"that captures the main topic. Focus on the key subject matter, not the " +
			"question format. Respond with ONLY the title:\n\n" + content
	}
	return "Generate a short, descriptive title (max 50 characters) that captures the " +
		"main topic or key insight from this content. Make it informative and specific. " +
		"Respond with ONLY the title:\n\n" + content
}
