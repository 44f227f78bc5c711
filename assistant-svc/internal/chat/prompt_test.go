package chat

import (
	"encoding/json"
	"strings"
	"testing"

	"foodie/assistant-svc/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNameHint(t *testing.T) {
	recent := []domain.Message{{Role: domain.RoleBot, Content: "Welcome back, ADA!"}}

	tests := []struct {
		name   string
		user   string
		turn   int
		recent []domain.Message
		want   string
	}{
		{name: "no name", user: "", turn: 1, want: "don't too personally address them"},
		{name: "used recently", user: "Ada", turn: 1, recent: recent, want: "don't call user's name"},
		{name: "every fifth turn", user: "Ada", turn: 6, want: "naturally mention user's name"},
		{name: "other turns", user: "Ada", turn: 3, want: "don't too personally address them"},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, nameHint(testCase.user, testCase.turn, testCase.recent))
		})
	}
}

func TestTurnPrompt(t *testing.T) {
	session := &domain.Session{Name: "Ada", Language: "Igbo"}

	prompt := turnPrompt("Kedu?", session, "don't call user's name", false)
	assert.Equal(t, "Kedu?\nYou are chatting with Ada in Igbo, and don't call user's name in this chat.", prompt)

	withImage := turnPrompt("What is this?", session, "x", true)
	assert.True(t, strings.HasSuffix(withImage, "User uploaded 1 image, Identify the food in the image sent."))
}

func TestDataPrompt(t *testing.T) {
	prompt := dataPrompt(json.RawMessage(`{"wallet_balance":5000}`), "English", responseFormat("get_user_wallet_balance"))

	assert.True(t, strings.HasPrefix(prompt, "Data: {\n  \"wallet_balance\": 5000\n}\nChatting in English, "))
	assert.Contains(t, prompt, formatPrefix)
}

func TestResponseFormat_EveryTool(t *testing.T) {
	for _, name := range []string{
		"get_current_user_info", "get_user_wallet_balance", "get_user_last_orders",
		"get_full_menu", "get_menu_category", "get_popular_dishes",
		"list_all_branches", "get_branch_details",
		"pre_booking", "book_table", "pre_order", "place_order", "wallet_deposit",
	} {
		assert.True(t, strings.HasPrefix(responseFormat(name), formatPrefix), name)
	}
	assert.Contains(t, responseFormat("unknown"), "No specific context")
}

func TestFallbacks(t *testing.T) {
	assert.Equal(t, apologies["yoruba"], Apology(" Yoruba "))
	assert.Equal(t, defaultApology, Apology("French"))
	assert.Equal(t, degraded["pidgin"], Degraded("PIDGIN"))
	assert.Equal(t, degraded["english"], Degraded(""))
}
