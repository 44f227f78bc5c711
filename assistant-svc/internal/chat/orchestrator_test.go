package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"foodie/assistant-svc/internal/chat"
	"foodie/assistant-svc/internal/domain"
	"foodie/assistant-svc/internal/mocks"
	"foodie/assistant-svc/internal/storage"
	"foodie/assistant-svc/internal/tools"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sessionID = "3f0c6d7e-1a2b-4c3d-8e9f-0a1b2c3d4e5f"

var fixedNow = time.Date(2025, 7, 1, 18, 30, 0, 0, time.UTC)

type harness struct {
	model   *mocks.Model
	backend *mocks.Backend
	store   *storage.RedisStore
	orch    *chat.Orchestrator
}

func newHarness(t *testing.T, language string) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := storage.NewRedisStore(client, time.Hour, 15*time.Minute)
	require.NoError(t, store.CreateSession(context.Background(), domain.Session{
		ID: sessionID, CustomerID: 1, Name: "Ada", Language: language, CreatedAt: fixedNow,
	}))

	h := &harness{
		model:   mocks.NewModel(t),
		backend: mocks.NewBackend(t),
		store:   store,
	}
	h.orch = h.newOrchestrator(store, time.Second)
	return h
}

func (h *harness) newOrchestrator(quotes chat.QuoteStore, modelTimeout time.Duration) *chat.Orchestrator {
	return chat.NewOrchestrator(h.model, tools.NewRouter(h.backend), h.store, quotes, chat.Options{
		HistoryTurns:   3,
		ModelTimeout:   modelTimeout,
		ToolTimeout:    time.Second,
		Temperature:    0.7,
		TopP:           1,
		MaxTokens:      512,
		FinalMaxTokens: 2500,
	}, zerolog.Nop()).WithClock(func() time.Time { return fixedNow }, func() string { return sessionID })
}

var (
	firstPass = mock.MatchedBy(func(r chat.ModelRequest) bool { return len(r.Tools) > 0 })
	finalPass = mock.MatchedBy(func(r chat.ModelRequest) bool { return len(r.Tools) == 0 })
)

func finalWith(fragments ...string) interface{} {
	return mock.MatchedBy(func(r chat.ModelRequest) bool {
		if len(r.Tools) != 0 || r.MaxTokens != 2500 || len(r.Messages) == 0 {
			return false
		}
		last := r.Messages[len(r.Messages)-1].Content
		for _, f := range fragments {
			if !strings.Contains(last, f) {
				return false
			}
		}
		return true
	})
}

func toolCall(name, args string) *chat.ModelReply {
	return &chat.ModelReply{ToolCall: &tools.Call{Name: name, Arguments: args}}
}

func path(p string) interface{} {
	return mock.MatchedBy(func(r tools.Request) bool { return r.Path == p })
}

const jollofArgs = `{"items":[{"name":"Jollof Rice","quantity":2}]}`

var jollofQuote = json.RawMessage(`{"message":"Provisional order summary:","items":[{"item":"Jollof Rice","quantity":2,"unit_price":1200,"subtotal":2400}],"sub_total":2400,"packaging_fee":200,"vat_percentage":7.5,"vat_amount":195,"grand_total":2795,"currency":"Naira"}`)

func TestHandleTurn_DirectText(t *testing.T) {
	h := newHarness(t, "English")
	ctx := context.Background()

	h.model.On("Generate", mock.Anything, mock.MatchedBy(func(r chat.ModelRequest) bool {
		last := r.Messages[len(r.Messages)-1].Content
		return r.MaxTokens == 512 &&
			strings.HasPrefix(last, "Hi there") &&
			strings.Contains(last, "You are chatting with Ada in English")
	})).Return(&chat.ModelReply{Text: "  Hello Ada! Hungry? 🍲 "}, nil).Once()

	result, err := h.orch.HandleTurn(ctx, sessionID, "Hi there", nil)
	require.NoError(t, err)
	assert.Equal(t, &chat.TurnResult{Reply: "Hello Ada! Hungry? 🍲", State: chat.StateTurnComplete}, result)

	history, err := h.store.History(ctx, sessionID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.Message{Role: domain.RoleUser, Content: "Hi there", Time: fixedNow}, history[0])
	assert.Equal(t, domain.RoleBot, history[1].Role)
}

func TestHandleTurn_QueryTool(t *testing.T) {
	h := newHarness(t, "English")

	h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("get_user_wallet_balance", "{}"), nil).Once()
	h.backend.On("Do", mock.Anything, 1, tools.Request{Method: http.MethodGet, Path: "/user/wallet"}).
		Return(json.RawMessage(`{"wallet_balance":5000}`), nil).Once()
	h.model.On("Generate", mock.Anything, finalWith("Data:", "5000", "Chatting in English", "wallet balance")).
		Return(&chat.ModelReply{Text: "Your wallet balance is ₦5,000.00"}, nil).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "How much do I have?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Your wallet balance is ₦5,000.00", result.Reply)
	assert.Equal(t, chat.StateTurnComplete, result.State)
	assert.Equal(t, "get_user_wallet_balance", result.Tool)
}

func TestHandleTurn_QuoteThenConfirm(t *testing.T) {
	h := newHarness(t, "English")
	ctx := context.Background()

	h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("pre_order", jollofArgs), nil).Once()
	h.backend.On("Do", mock.Anything, 1, path("/pre_order")).Return(jollofQuote, nil).Once()
	h.model.On("Generate", mock.Anything, finalWith("2795", "provisional invoice")).
		Return(&chat.ModelReply{Text: "Grand Total: ₦2,795.00. Shall I go ahead?"}, nil).Once()

	_, err := h.orch.HandleTurn(ctx, sessionID, "I want 2 Jollof Rice", nil)
	require.NoError(t, err)

	inv, err := tools.NewRouter(nil).Prepare(tools.Call{Name: "pre_order", Arguments: jollofArgs})
	require.NoError(t, err)
	token, err := h.store.Quote(ctx, 1, inv.Fingerprint)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, domain.QuoteToken{SessionID: sessionID, Turn: 1, Tool: "pre_order", Fingerprint: inv.Fingerprint, GrandTotal: "2795"}, *token)

	h.model.On("Generate", mock.Anything, firstPass).
		Return(toolCall("place_order", `{"items":[{"name":"jollof rice","quantity":2}],"total_cost":2795}`), nil).Once()
	h.backend.On("Do", mock.Anything, 1, path("/place_order")).
		Return(json.RawMessage(`{"message":"Order placed successfully","grand_total":2795,"new_wallet_balance":2205}`), nil).Once()
	h.model.On("Generate", mock.Anything, finalWith("2205", "Status: Paid")).
		Return(&chat.ModelReply{Text: "Done! New balance ₦2,205.00"}, nil).Once()

	result, err := h.orch.HandleTurn(ctx, sessionID, "Yes, go ahead", nil)
	require.NoError(t, err)
	assert.Equal(t, "place_order", result.Tool)
	assert.Equal(t, chat.StateTurnComplete, result.State)

	token, err = h.store.Quote(ctx, 1, inv.Fingerprint)
	require.NoError(t, err)
	assert.Nil(t, token, "quote token is consumed by the commit")
}

func TestHandleTurn_CommitRejectedWithoutQuote(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, h *harness)
		call  *chat.ModelReply
	}{
		{
			name:  "no quote at all",
			setup: func(t *testing.T, h *harness) {},
			call:  toolCall("place_order", `{"items":[{"name":"Jollof Rice","quantity":2}],"total_cost":2795}`),
		},
		{
			name: "quote from another session",
			setup: func(t *testing.T, h *harness) {
				inv, err := tools.NewRouter(nil).Prepare(tools.Call{Name: "pre_order", Arguments: jollofArgs})
				require.NoError(t, err)
				require.NoError(t, h.store.SaveQuote(context.Background(), 1, domain.QuoteToken{
					SessionID: "other-session", Turn: 0, Tool: "pre_order", Fingerprint: inv.Fingerprint,
				}))
			},
			call: toolCall("place_order", `{"items":[{"name":"Jollof Rice","quantity":2}],"total_cost":2795}`),
		},
		{
			name: "different item set",
			setup: func(t *testing.T, h *harness) {
				inv, err := tools.NewRouter(nil).Prepare(tools.Call{Name: "pre_order", Arguments: jollofArgs})
				require.NoError(t, err)
				require.NoError(t, h.store.SaveQuote(context.Background(), 1, domain.QuoteToken{
					SessionID: sessionID, Turn: 0, Tool: "pre_order", Fingerprint: inv.Fingerprint,
				}))
			},
			call: toolCall("place_order", `{"items":[{"name":"Jollof Rice","quantity":3}],"total_cost":4192.5}`),
		},
		{
			name:  "booking without pre_booking",
			setup: func(t *testing.T, h *harness) {},
			call:  toolCall("book_table", `{"location":"lekki","table_type":"table_for_4"}`),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			h := newHarness(t, "English")
			testCase.setup(t, h)

			h.model.On("Generate", mock.Anything, firstPass).Return(testCase.call, nil).Once()
			h.model.On("Generate", mock.Anything, finalWith("quote_required")).
				Return(&chat.ModelReply{Text: "Let me show you the invoice first."}, nil).Once()

			result, err := h.orch.HandleTurn(context.Background(), sessionID, "Just place it", nil)
			require.NoError(t, err)
			assert.Equal(t, chat.StateTurnComplete, result.State)
			assert.Equal(t, "Let me show you the invoice first.", result.Reply)
			h.backend.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleTurn_CommitTotalMustMatchQuote(t *testing.T) {
	tests := []struct {
		name      string
		totalCost string
		wantCalls int
	}{
		{name: "changed total", totalCost: "2000", wantCalls: 1},
		{name: "within a kobo", totalCost: "2795.004", wantCalls: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			h := newHarness(t, "English")
			ctx := context.Background()

			h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("pre_order", jollofArgs), nil).Once()
			h.backend.On("Do", mock.Anything, 1, path("/pre_order")).Return(jollofQuote, nil).Once()
			h.model.On("Generate", mock.Anything, finalWith("2795", "provisional invoice")).
				Return(&chat.ModelReply{Text: "Grand Total: ₦2,795.00. Shall I go ahead?"}, nil).Once()
			_, err := h.orch.HandleTurn(ctx, sessionID, "I want 2 Jollof Rice", nil)
			require.NoError(t, err)

			h.model.On("Generate", mock.Anything, firstPass).
				Return(toolCall("place_order", `{"items":[{"name":"Jollof Rice","quantity":2}],"total_cost":`+testCase.totalCost+`}`), nil).Once()
			if testCase.wantCalls == 1 {
				h.model.On("Generate", mock.Anything, finalWith("total_mismatch", "2795")).
					Return(&chat.ModelReply{Text: "The total should be ₦2,795.00."}, nil).Once()
			} else {
				h.backend.On("Do", mock.Anything, 1, path("/place_order")).
					Return(json.RawMessage(`{"message":"Order placed successfully","grand_total":2795,"new_wallet_balance":2205}`), nil).Once()
				h.model.On("Generate", mock.Anything, finalWith("2205")).
					Return(&chat.ModelReply{Text: "Done!"}, nil).Once()
			}

			_, err = h.orch.HandleTurn(ctx, sessionID, "Yes", nil)
			require.NoError(t, err)
			h.backend.AssertNumberOfCalls(t, "Do", testCase.wantCalls)
		})
	}
}

func TestHandleTurn_StaleQuoteRejected(t *testing.T) {
	h := newHarness(t, "English")
	ctx := context.Background()

	h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("pre_booking", `{"location":"Ikeja","table_type":"table_for_2"}`), nil).Once()
	h.backend.On("Do", mock.Anything, 1, path("/pre_book/Ikeja/table_for_2")).
		Return(json.RawMessage(`{"table_type":"table_for_2","location":"ikeja","estimated_cost":2000,"available":5}`), nil).Once()
	h.model.On("Generate", mock.Anything, finalWith("estimated_cost")).Return(&chat.ModelReply{Text: "₦2,000. Book it?"}, nil).Once()
	_, err := h.orch.HandleTurn(ctx, sessionID, "Table for 2 at Ikeja", nil)
	require.NoError(t, err)

	h.model.On("Generate", mock.Anything, firstPass).Return(&chat.ModelReply{Text: "We open at 8am."}, nil).Once()
	_, err = h.orch.HandleTurn(ctx, sessionID, "What time do you open?", nil)
	require.NoError(t, err)

	h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("book_table", `{"location":"ikeja","table_type":"Table for 2"}`), nil).Once()
	h.model.On("Generate", mock.Anything, finalWith("quote_required")).Return(&chat.ModelReply{Text: "Let me confirm the price again."}, nil).Once()
	result, err := h.orch.HandleTurn(ctx, sessionID, "Ok book it", nil)
	require.NoError(t, err)
	assert.Equal(t, "Let me confirm the price again.", result.Reply)

	h.backend.AssertNumberOfCalls(t, "Do", 1)
}

func TestHandleTurn_BusinessErrorGoesToModel(t *testing.T) {
	h := newHarness(t, "English")

	h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("get_menu_category", `{"category":"desserts"}`), nil).Once()
	h.backend.On("Do", mock.Anything, 1, path("/menu/desserts")).
		Return(nil, &tools.APIError{Status: 404, Code: "not_found", Message: "Category 'desserts' not found"}).Once()
	h.model.On("Generate", mock.Anything, finalWith(`"code": "not_found"`, "Category 'desserts' not found", "Never invent")).
		Return(&chat.ModelReply{Text: "We don't have desserts yet, but our snacks are lovely!"}, nil).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "Show me desserts", nil)
	require.NoError(t, err)
	assert.Equal(t, chat.StateTurnComplete, result.State)
	assert.Equal(t, "get_menu_category", result.Tool)
}

func TestHandleTurn_InvalidArgumentsGoToModel(t *testing.T) {
	h := newHarness(t, "English")

	h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("pre_order", `{"items":[]}`), nil).Once()
	h.model.On("Generate", mock.Anything, finalWith("invalid_arguments")).Return(&chat.ModelReply{Text: "What would you like to order?"}, nil).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "Order something", nil)
	require.NoError(t, err)
	assert.Equal(t, "What would you like to order?", result.Reply)
}

func TestHandleTurn_TransportFailureDegrades(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{language: "English", want: chat.Degraded("English")},
		{language: "Yoruba", want: chat.Degraded("yoruba")},
		{language: "Klingon", want: chat.Degraded("English")},
	}

	for _, testCase := range tests {
		t.Run(testCase.language, func(t *testing.T) {
			h := newHarness(t, testCase.language)

			h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("get_full_menu", ""), nil).Once()
			h.backend.On("Do", mock.Anything, 1, path("/menu")).
				Return(nil, &tools.TransportError{Err: errors.New("connection refused")}).Once()

			result, err := h.orch.HandleTurn(context.Background(), sessionID, "Menu please", nil)
			require.NoError(t, err)
			assert.Equal(t, chat.StateDegradedFallback, result.State)
			assert.Equal(t, testCase.want, result.Reply)
			h.model.AssertNumberOfCalls(t, "Generate", 1)
		})
	}
}

func TestHandleTurn_ModelFailureDegrades(t *testing.T) {
	h := newHarness(t, "Pidgin")

	h.model.On("Generate", mock.Anything, firstPass).Return(nil, errors.New("503 from upstream")).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "Wetin dey?", nil)
	require.NoError(t, err)
	assert.Equal(t, chat.StateDegradedFallback, result.State)
	assert.Equal(t, chat.Degraded("Pidgin"), result.Reply)
}

func TestHandleTurn_ModelTimeout(t *testing.T) {
	h := newHarness(t, "English")
	h.orch = h.newOrchestrator(h.store, 20*time.Millisecond)

	h.model.On("Generate", mock.Anything, firstPass).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded).Once()

	start := time.Now()
	result, err := h.orch.HandleTurn(context.Background(), sessionID, "Hello?", nil)
	require.NoError(t, err)
	assert.Equal(t, chat.StateDegradedFallback, result.State)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHandleTurn_FinalPassFailureDegrades(t *testing.T) {
	h := newHarness(t, "Hausa")

	h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("list_all_branches", "{}"), nil).Once()
	h.backend.On("Do", mock.Anything, 1, path("/branches")).Return(json.RawMessage(`{"branches":["ikeja"]}`), nil).Once()
	h.model.On("Generate", mock.Anything, finalPass).Return(nil, context.DeadlineExceeded).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "Ina reshen ku?", nil)
	require.NoError(t, err)
	assert.Equal(t, chat.StateDegradedFallback, result.State)
	assert.Equal(t, chat.Degraded("Hausa"), result.Reply)
	assert.Equal(t, "list_all_branches", result.Tool)
}

func TestHandleTurn_UnknownToolApologises(t *testing.T) {
	h := newHarness(t, "Igbo")

	h.model.On("Generate", mock.Anything, firstPass).Return(toolCall("order_pizza", "{}"), nil).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "Pizza", nil)
	require.NoError(t, err)
	assert.Equal(t, chat.StateTurnComplete, result.State)
	assert.Equal(t, chat.Apology("Igbo"), result.Reply)
	h.backend.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleTurn_EmptyReplyApologises(t *testing.T) {
	h := newHarness(t, "English")

	h.model.On("Generate", mock.Anything, firstPass).Return(&chat.ModelReply{Text: "   "}, nil).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "Hmm", nil)
	require.NoError(t, err)
	assert.Equal(t, chat.Apology("English"), result.Reply)
}

func TestHandleTurn_QuoteStoreFailureDegrades(t *testing.T) {
	h := newHarness(t, "English")
	quotes := mocks.NewQuoteStore(t)
	h.orch = h.newOrchestrator(quotes, time.Second)

	h.model.On("Generate", mock.Anything, firstPass).
		Return(toolCall("place_order", `{"items":[{"name":"Jollof Rice","quantity":2}],"total_cost":2795}`), nil).Once()
	quotes.On("Quote", mock.Anything, 1, mock.AnythingOfType("string")).Return(nil, errors.New("redis down")).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "Yes", nil)
	require.NoError(t, err)
	assert.Equal(t, chat.StateDegradedFallback, result.State)
	h.backend.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleTurn_ImageForwarded(t *testing.T) {
	h := newHarness(t, "English")
	image := &domain.Image{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}

	h.model.On("Generate", mock.Anything, mock.MatchedBy(func(r chat.ModelRequest) bool {
		last := r.Messages[len(r.Messages)-1].Content
		return r.Image == image &&
			strings.HasPrefix(last, "What food is this?") &&
			strings.Contains(last, "User uploaded 1 image")
	})).Return(&chat.ModelReply{Text: "That looks like Egusi soup!"}, nil).Once()

	result, err := h.orch.HandleTurn(context.Background(), sessionID, "", image)
	require.NoError(t, err)
	assert.Equal(t, "That looks like Egusi soup!", result.Reply)
}

func TestHandleTurn_HistoryWindow(t *testing.T) {
	h := newHarness(t, "English")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, h.store.AppendHistory(ctx, sessionID,
			domain.Message{Role: domain.RoleUser, Content: "question"},
			domain.Message{Role: domain.RoleBot, Content: "answer"},
		))
	}

	h.model.On("Generate", mock.Anything, mock.MatchedBy(func(r chat.ModelRequest) bool {
		return len(r.Messages) == 7 && r.Messages[0].Role == "user" && r.Messages[1].Role == "assistant"
	})).Return(&chat.ModelReply{Text: "ok"}, nil).Once()

	_, err := h.orch.HandleTurn(ctx, sessionID, "next", nil)
	require.NoError(t, err)
}

func TestHandleTurn_SessionNotFound(t *testing.T) {
	h := newHarness(t, "English")

	_, err := h.orch.HandleTurn(context.Background(), "nope", "hi", nil)
	assert.True(t, errors.Is(err, chat.ErrSessionNotFound))
}

func TestStartSession(t *testing.T) {
	h := newHarness(t, "English")
	ctx := context.Background()
	require.NoError(t, h.store.Client.Del(ctx, "session:"+sessionID).Err())

	h.model.On("Generate", mock.Anything, mock.MatchedBy(func(r chat.ModelRequest) bool {
		return len(r.Tools) == 0 && strings.Contains(r.Messages[0].Content, "Introduce yourself to Tolu")
	})).Return(&chat.ModelReply{Text: "Hi Tolu! I'm Foodie 🍛"}, nil).Once()

	session, greeting, err := h.orch.StartSession(ctx, 2, " Tolu ", "")
	require.NoError(t, err)
	assert.Equal(t, "Hi Tolu! I'm Foodie 🍛", greeting)
	assert.Equal(t, &domain.Session{ID: sessionID, CustomerID: 2, Name: "Tolu", Language: "English", CreatedAt: fixedNow}, session)

	stored, err := h.store.Session(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CustomerID)

	history, err := h.orch.History(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, greeting, history[0].Content)
}

func TestStartSession_GreetingFallback(t *testing.T) {
	h := newHarness(t, "English")

	h.model.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("model down")).Once()

	_, greeting, err := h.orch.StartSession(context.Background(), 1, "", "Yoruba")
	require.NoError(t, err)
	assert.Contains(t, greeting, "Hi there!")
}

func TestStartSession_InvalidCustomer(t *testing.T) {
	h := newHarness(t, "English")

	_, _, err := h.orch.StartSession(context.Background(), 0, "Ada", "English")
	assert.True(t, errors.Is(err, chat.ErrInvalidCustomer))
}

func TestStartSession_StoreFailure(t *testing.T) {
	model := mocks.NewModel(t)
	sessions := mocks.NewSessionStore(t)
	orch := chat.NewOrchestrator(model, tools.NewRouter(nil), sessions, nil, chat.Options{}, zerolog.Nop())

	sessions.On("CreateSession", mock.Anything, mock.AnythingOfType("domain.Session")).Return(errors.New("redis down")).Once()

	_, _, err := orch.StartSession(context.Background(), 1, "Ada", "English")
	assert.EqualError(t, err, "redis down")
	model.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
