package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodie/assistant-svc/internal/domain"
	"foodie/assistant-svc/internal/tools"
	"foodie/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrInvalidCustomer = errors.New("customer_id must be a positive integer")

type State string

const (
	StateAwaitingModelResponse State = "awaiting_model_response"
	StateInvokingTool          State = "invoking_tool"
	StateAwaitingFinalResponse State = "awaiting_final_response"
	StateDegradedFallback      State = "degraded_fallback"
	StateTurnComplete          State = "turn_complete"
)

func (s State) terminal() bool {
	return s == StateTurnComplete || s == StateDegradedFallback
}

type Options struct {
	HistoryTurns   int
	ModelTimeout   time.Duration
	ToolTimeout    time.Duration
	Temperature    float32
	TopP           float32
	MaxTokens      int
	FinalMaxTokens int
}

type TurnResult struct {
	Reply string `json:"reply"`
	State State  `json:"state"`
	Tool  string `json:"tool,omitempty"`
}

const totalChanged = "The total_cost %s does not match the confirmed provisional invoice grand total of %s naira. Nothing was charged. Use the confirmed grand total or show a fresh provisional invoice."

var totalTolerance = decimal.New(1, -2)

const quoteRequired = "No confirmed provisional quote matches this request. Show the customer a provisional invoice first (pre_order or pre_booking) and only commit after they explicitly confirm it in their next message."

// Orchestrator runs one conversation turn at a time: a first model call
// with the tool catalog, at most one tool invocation, and a second model
// call that phrases the tool result.
type Orchestrator struct {
	model    Model
	router   ToolRouter
	sessions SessionStore
	quotes   QuoteStore
	opts     Options
	logger   zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewOrchestrator(model Model, router ToolRouter, sessions SessionStore, quotes QuoteStore, opts Options, logger zerolog.Logger) *Orchestrator {
	if opts.HistoryTurns <= 0 {
		opts.HistoryTurns = 3
	}
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = 30 * time.Second
	}
	if opts.ToolTimeout <= 0 {
		opts.ToolTimeout = 10 * time.Second
	}
	return &Orchestrator{
		model:    model,
		router:   router,
		sessions: sessions,
		quotes:   quotes,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock overrides the time source and session id generator.
func (o *Orchestrator) WithClock(now func() time.Time, newID func() string) *Orchestrator {
	o.now = now
	o.newID = newID
	return o
}

func (o *Orchestrator) StartSession(ctx context.Context, customerID int, name, language string) (*domain.Session, string, error) {
	if customerID <= 0 {
		return nil, "", ErrInvalidCustomer
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = domain.DefaultLanguage
	}

	session := domain.Session{
		ID:         o.newID(),
		CustomerID: customerID,
		Name:       strings.TrimSpace(name),
		Language:   language,
		CreatedAt:  o.now().UTC(),
	}
	if err := o.sessions.CreateSession(ctx, session); err != nil {
		return nil, "", err
	}

	greeting := ""
	reply, err := o.generate(ctx, "greeting", ModelRequest{
		System:      persona,
		Messages:    []ModelMessage{{Role: "user", Content: introductionPrompt(session.Name, language)}},
		Temperature: o.opts.Temperature,
		TopP:        o.opts.TopP,
		MaxTokens:   o.opts.MaxTokens,
	})
	if err != nil {
		o.logger.Warn().Err(err).Str("session_id", session.ID).Msg("greeting generation failed")
	} else if reply != nil {
		greeting = strings.TrimSpace(reply.Text)
	}
	if greeting == "" {
		greeting = fmt.Sprintf("Hi %s! I'm Foodie 🧑‍🍳, ask me anything about our menu, branches or your orders.", displayName(session.Name, "there"))
	}

	if err := o.sessions.AppendHistory(ctx, session.ID, domain.Message{Role: domain.RoleBot, Content: greeting, Time: o.now().UTC()}); err != nil {
		o.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to store greeting")
	}

	o.logger.Info().
		Str("session_id", session.ID).
		Int("customer_id", customerID).
		Str("language", language).
		Msg("session started")
	return &session, greeting, nil
}

func (o *Orchestrator) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if _, err := o.sessions.Session(ctx, sessionID); err != nil {
		return nil, err
	}
	return o.sessions.History(ctx, sessionID, 0)
}

type turn struct {
	session  *domain.Session
	number   int
	history  []domain.Message
	text     string
	image    *domain.Image
	messages []ModelMessage

	call   *tools.Call
	data   json.RawMessage
	format string

	result  TurnResult
	outcome string
}

func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, text string, image *domain.Image) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" && image != nil {
		text = defaultImageQuestion
	}

	session, err := o.sessions.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	number, err := o.sessions.BeginTurn(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	history, err := o.sessions.History(ctx, sessionID, 2*o.opts.HistoryTurns)
	if err != nil {
		return nil, err
	}

	t := &turn{
		session: session,
		number:  number,
		history: history,
		text:    text,
		image:   image,
	}

	state := StateAwaitingModelResponse
	for !state.terminal() {
		next := o.step(ctx, t, state)
		o.logger.Debug().
			Str("session_id", sessionID).
			Int("turn", number).
			Str("from", string(state)).
			Str("to", string(next)).
			Msg("turn transition")
		state = next
	}
	t.result.State = state
	metrics.IncTurn(t.outcome)

	now := o.now().UTC()
	if err := o.sessions.AppendHistory(ctx, sessionID,
		domain.Message{Role: domain.RoleUser, Content: text, Time: now},
		domain.Message{Role: domain.RoleBot, Content: t.result.Reply, Time: now},
	); err != nil {
		o.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to store history")
	}

	o.logger.Info().
		Str("session_id", sessionID).
		Int("customer_id", session.CustomerID).
		Int("turn", number).
		Str("tool", t.result.Tool).
		Str("state", string(state)).
		Str("outcome", t.outcome).
		Msg("turn complete")
	return &t.result, nil
}

func (o *Orchestrator) step(ctx context.Context, t *turn, state State) State {
	switch state {
	case StateAwaitingModelResponse:
		return o.awaitModel(ctx, t)
	case StateInvokingTool:
		return o.invokeTool(ctx, t)
	case StateAwaitingFinalResponse:
		return o.awaitFinal(ctx, t)
	default:
		return StateTurnComplete
	}
}

func (o *Orchestrator) awaitModel(ctx context.Context, t *turn) State {
	hint := nameHint(t.session.Name, t.number, t.history)
	t.messages = append(historyMessages(t.history), ModelMessage{
		Role:    "user",
		Content: turnPrompt(t.text, t.session, hint, t.image != nil),
	})

	reply, err := o.generate(ctx, "first", ModelRequest{
		System:      persona,
		Messages:    t.messages,
		Image:       t.image,
		Tools:       o.router.Specs(),
		Temperature: o.opts.Temperature,
		TopP:        o.opts.TopP,
		MaxTokens:   o.opts.MaxTokens,
	})
	if err != nil {
		return o.degrade(t, "model", err)
	}
	if reply != nil && reply.ToolCall != nil {
		t.call = reply.ToolCall
		return StateInvokingTool
	}
	return o.complete(t, reply, "direct")
}

func (o *Orchestrator) invokeTool(ctx context.Context, t *turn) State {
	name := t.call.Name
	t.result.Tool = name

	inv, err := o.router.Prepare(*t.call)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		metrics.IncToolCall(name, "unknown")
		o.logger.Warn().Str("tool", name).Msg("model requested unknown tool")
		t.result.Reply = Apology(t.session.Language)
		t.outcome = "unknown_tool"
		return StateTurnComplete
	case err != nil:
		metrics.IncToolCall(name, "invalid_arguments")
		t.fail(err.Error(), "invalid_arguments")
		return StateAwaitingFinalResponse
	}

	if inv.Tool.Kind == tools.KindCommit {
		token, err := o.confirmedQuote(ctx, t, inv)
		if err != nil {
			return o.degrade(t, "quote_store", err)
		}
		if token == nil {
			o.reject(t, name, "quote_required")
			t.fail(quoteRequired, "quote_required")
			return StateAwaitingFinalResponse
		}
		if !totalMatches(token.GrandTotal, inv.DeclaredTotal) {
			o.reject(t, name, "total_mismatch")
			t.fail(fmt.Sprintf(totalChanged, inv.DeclaredTotal, token.GrandTotal), "total_mismatch")
			return StateAwaitingFinalResponse
		}
	}

	toolCtx, cancel := context.WithTimeout(ctx, o.opts.ToolTimeout)
	data, err := o.router.Execute(toolCtx, t.session.CustomerID, inv)
	cancel()

	var apiErr *tools.APIError
	switch {
	case errors.As(err, &apiErr):
		metrics.IncToolCall(name, "rejected")
		t.fail(apiErr.Message, apiErr.Code)
		return StateAwaitingFinalResponse
	case err != nil:
		metrics.IncToolCall(name, "transport_error")
		return o.degrade(t, "backend", err)
	}

	metrics.IncToolCall(name, "ok")
	o.recordQuote(ctx, t, inv, data)
	t.data = data
	t.format = responseFormat(name)
	return StateAwaitingFinalResponse
}

func (o *Orchestrator) awaitFinal(ctx context.Context, t *turn) State {
	messages := append(append([]ModelMessage{}, t.messages...), ModelMessage{
		Role:    "user",
		Content: dataPrompt(t.data, t.session.Language, t.format),
	})

	reply, err := o.generate(ctx, "final", ModelRequest{
		System:      finalSystem,
		Messages:    messages,
		Temperature: o.opts.Temperature,
		TopP:        o.opts.TopP,
		MaxTokens:   o.opts.FinalMaxTokens,
	})
	if err != nil {
		return o.degrade(t, "model", err)
	}
	return o.complete(t, reply, "tool")
}

func (o *Orchestrator) complete(t *turn, reply *ModelReply, outcome string) State {
	text := ""
	if reply != nil {
		text = strings.TrimSpace(reply.Text)
	}
	if text == "" {
		t.result.Reply = Apology(t.session.Language)
		t.outcome = "empty"
		return StateTurnComplete
	}
	t.result.Reply = text
	t.outcome = outcome
	return StateTurnComplete
}

func (o *Orchestrator) degrade(t *turn, stage string, err error) State {
	o.logger.Warn().
		Err(err).
		Str("session_id", t.session.ID).
		Str("stage", stage).
		Str("tool", t.result.Tool).
		Msg("turn degraded")
	t.result.Reply = Degraded(t.session.Language)
	t.outcome = "degraded"
	return StateDegradedFallback
}

func (t *turn) fail(message, code string) {
	t.data, _ = json.Marshal(map[string]string{"error": message, "code": code})
	t.format = errorFormat
}

func (o *Orchestrator) reject(t *turn, tool, reason string) {
	metrics.IncToolCall(tool, "rejected")
	metrics.IncRejection(reason)
	o.logger.Info().
		Str("session_id", t.session.ID).
		Str("tool", tool).
		Str("reason", reason).
		Msg("commit rejected before reaching the backend")
}

// confirmedQuote returns the quote the customer saw for the same items in
// the previous turn of this session, or nil when there is none.
func (o *Orchestrator) confirmedQuote(ctx context.Context, t *turn, inv *tools.Invocation) (*domain.QuoteToken, error) {
	token, err := o.quotes.Quote(ctx, t.session.CustomerID, inv.Fingerprint)
	if err != nil {
		return nil, err
	}
	if token == nil ||
		token.SessionID != t.session.ID ||
		token.Tool != inv.Tool.Pair ||
		token.Turn != t.number-1 {
		return nil, nil
	}
	return token, nil
}

// totalMatches compares a declared commit total with the quoted one to the
// kobo. Either side missing means there is nothing to compare.
func totalMatches(quoted, declared string) bool {
	if quoted == "" || declared == "" {
		return true
	}
	q, err := decimal.NewFromString(quoted)
	if err != nil {
		return true
	}
	d, err := decimal.NewFromString(declared)
	if err != nil {
		return false
	}
	return q.Sub(d).Abs().LessThanOrEqual(totalTolerance)
}

func (o *Orchestrator) recordQuote(ctx context.Context, t *turn, inv *tools.Invocation, data json.RawMessage) {
	customerID := t.session.CustomerID
	switch inv.Tool.Kind {
	case tools.KindQuote:
		token := domain.QuoteToken{
			SessionID:   t.session.ID,
			Turn:        t.number,
			Tool:        inv.Tool.Name,
			Fingerprint: inv.Fingerprint,
			GrandTotal:  quotedTotal(data),
		}
		if err := o.quotes.SaveQuote(ctx, customerID, token); err != nil {
			o.logger.Warn().Err(err).Str("session_id", t.session.ID).Msg("failed to save quote token")
		}
	case tools.KindCommit:
		if err := o.quotes.DeleteQuote(ctx, customerID, inv.Fingerprint); err != nil {
			o.logger.Warn().Err(err).Str("session_id", t.session.ID).Msg("failed to consume quote token")
		}
	}
}

func quotedTotal(data json.RawMessage) string {
	var v struct {
		GrandTotal    json.Number `json:"grand_total"`
		EstimatedCost json.Number `json:"estimated_cost"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return ""
	}
	if v.GrandTotal != "" {
		return v.GrandTotal.String()
	}
	return v.EstimatedCost.String()
}

func (o *Orchestrator) generate(ctx context.Context, phase string, req ModelRequest) (*ModelReply, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.ModelTimeout)
	defer cancel()

	start := time.Now()
	reply, err := o.model.Generate(ctx, req)
	metrics.ObserveModelCall(phase, time.Since(start).Seconds())
	return reply, err
}
