package chat

import (
	"context"
	"encoding/json"

	"foodie/assistant-svc/internal/domain"
	"foodie/assistant-svc/internal/storage"
	"foodie/assistant-svc/internal/tools"
)

var ErrSessionNotFound = domain.ErrSessionNotFound

type ModelMessage struct {
	Role    string
	Content string
}

type ModelRequest struct {
	System      string
	Messages    []ModelMessage
	Image       *domain.Image
	Tools       []tools.Spec
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// ModelReply carries either text, a tool call, or both empty when the
// model produced nothing usable.
type ModelReply struct {
	Text     string
	ToolCall *tools.Call
}

type Model interface {
	Generate(ctx context.Context, req ModelRequest) (*ModelReply, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session domain.Session) error
	Session(ctx context.Context, id string) (*domain.Session, error)
	BeginTurn(ctx context.Context, id string) (int, error)
	AppendHistory(ctx context.Context, id string, messages ...domain.Message) error
	History(ctx context.Context, id string, limit int) ([]domain.Message, error)
}

type QuoteStore interface {
	SaveQuote(ctx context.Context, customerID int, token domain.QuoteToken) error
	Quote(ctx context.Context, customerID int, fingerprint string) (*domain.QuoteToken, error)
	DeleteQuote(ctx context.Context, customerID int, fingerprint string) error
}

type ToolRouter interface {
	Specs() []tools.Spec
	Prepare(call tools.Call) (*tools.Invocation, error)
	Execute(ctx context.Context, customerID int, inv *tools.Invocation) (json.RawMessage, error)
}

type Service interface {
	StartSession(ctx context.Context, customerID int, name, language string) (*domain.Session, string, error)
	HandleTurn(ctx context.Context, sessionID, text string, image *domain.Image) (*TurnResult, error)
	History(ctx context.Context, sessionID string) ([]domain.Message, error)
}

var (
	_ SessionStore = (*storage.RedisStore)(nil)
	_ QuoteStore   = (*storage.RedisStore)(nil)
	_ ToolRouter   = (*tools.Router)(nil)
	_ Service      = (*Orchestrator)(nil)
)
