package providers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"agriassist.app/config"
	"agriassist.app/errors"
	"agriassist.app/models"
)

// systemPersona restricts the assistant to the product's domain. It is
// prepended to every conversation window before it goes upstream.
const systemPersona = "You are AgriAssist, a helpful assistant for farmers. " +
	"Answer questions about crops, weather, soil, irrigation, pests, market " +
	"prices and rural schemes in simple language. If a question is not " +
	"related to farming or rural life, politely steer the conversation back " +
	"to agriculture. Answer in the language the farmer writes in."

// OpenAIChatProvider implements ChatProvider against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIChatProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []chatMessagePayload `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

type chatMessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenAIChatProvider(cfg *config.ChatConfig) *OpenAIChatProvider {
	return &OpenAIChatProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// Complete sends the prepared conversation window upstream and returns the
// assistant reply. The final turn must be the user's current message.
func (p *OpenAIChatProvider) Complete(turns []models.ChatTurn) (string, error) {
	if len(turns) == 0 {
		return "", errors.NewValidationError("conversation cannot be empty")
	}

	messages := make([]chatMessagePayload, 0, len(turns)+1)
	messages = append(messages, chatMessagePayload{
		Role:    models.RoleSystem,
		Content: systemPersona,
	})
	for _, turn := range turns {
		messages = append(messages, chatMessagePayload{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	payload := chatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   500,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.NewInvalidPayloadError("chat", "failed to encode request")
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewUnreachableError("chat", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport("chat", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus("chat", resp.StatusCode)
	}

	var apiResponse chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", errors.NewInvalidPayloadError("chat", "body is not valid JSON")
	}

	if len(apiResponse.Choices) == 0 {
		detail := "no choices returned"
		if apiResponse.Error != nil {
			detail = apiResponse.Error.Message
		}
		return "", errors.NewInvalidPayloadError("chat", detail)
	}

	reply := strings.TrimSpace(apiResponse.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.NewInvalidPayloadError("chat", "empty completion")
	}

	return reply, nil
}
