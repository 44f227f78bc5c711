package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"foodie/assistant-svc/internal/chat"
	"foodie/assistant-svc/internal/domain"
	"foodie/assistant-svc/internal/tools"
	"foodie/config"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIModel talks to any OpenAI compatible chat completions endpoint
// (Gemini, Ollama and OpenAI all expose one).
type OpenAIModel struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

var _ chat.Model = (*OpenAIModel)(nil)

func NewOpenAIModel(cfg config.ModelConfig, logger zerolog.Logger) *OpenAIModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &OpenAIModel{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Name,
		logger: logger,
	}
}

func (m *OpenAIModel) Generate(ctx context.Context, req chat.ModelRequest) (*chat.ModelReply, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    buildMessages(req),
		Tools:       buildTools(req),
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		m.logger.Error().Err(err).Str("model", m.model).Msg("chat completion failed")
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return &chat.ModelReply{}, nil
	}
	msg := resp.Choices[0].Message
	reply := &chat.ModelReply{Text: msg.Content}
	switch {
	case len(msg.ToolCalls) > 0:
		reply.ToolCall = &tools.Call{Name: msg.ToolCalls[0].Function.Name, Arguments: msg.ToolCalls[0].Function.Arguments}
	case msg.FunctionCall != nil:
		reply.ToolCall = &tools.Call{Name: msg.FunctionCall.Name, Arguments: msg.FunctionCall.Arguments}
	}

	m.logger.Debug().
		Str("model", m.model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Bool("tool_call", reply.ToolCall != nil).
		Msg("chat completion")
	return reply, nil
}

func buildMessages(req chat.ModelRequest) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}

	for i, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		out := openai.ChatCompletionMessage{Role: role, Content: msg.Content}

		if req.Image != nil && i == len(req.Messages)-1 && role == openai.ChatMessageRoleUser {
			out.Content = ""
			out.MultiContent = []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: msg.Content},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL(req.Image)}},
			}
		}
		messages = append(messages, out)
	}
	return messages
}

func buildTools(req chat.ModelRequest) []openai.Tool {
	if len(req.Tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(req.Tools))
	for _, spec := range req.Tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}
	return out
}

func dataURL(img *domain.Image) string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
