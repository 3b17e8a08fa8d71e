package stub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultSystemPrompt = "You are a helpful assistant for a retail bank. " +
	"Answer the customer's question briefly and politely. " +
	"You have no access to account data, so never invent balances or transactions."

// Completer is the slice of the OpenAI client the responder needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI answers with a language model completion in the answer-field shape.
type OpenAI struct {
	client Completer
	model  string
	prompt PromptConfig
}

func NewOpenAI(client Completer, model string, prompt PromptConfig) *OpenAI {
	if prompt.System == "" {
		prompt.System = defaultSystemPrompt
	}
	if prompt.Temperature <= 0 {
		prompt.Temperature = 0.2
	}
	if prompt.MaxTokens <= 0 {
		prompt.MaxTokens = 300
	}
	return &OpenAI{client: client, model: model, prompt: prompt}
}

type modelReply struct {
	Answer        string          `json:"answer"`
	CorrelationID string          `json:"correlationId,omitempty"`
	DataSource    modelDataSource `json:"dataSource"`
}

type modelDataSource struct {
	Description string `json:"description"`
	API         string `json:"api"`
}

func (o *OpenAI) Respond(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.prompt.Temperature,
		MaxTokens:   o.prompt.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices")
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return nil, nil
	}
	b, err := json.Marshal(modelReply{
		Answer:        answer,
		CorrelationID: resp.ID,
		DataSource: modelDataSource{
			Description: "Generated by a language model",
			API:         o.model,
		},
	})
	if err != nil {
		return nil, err
	}
	return &Response{Status: http.StatusOK, Body: b}, nil
}
