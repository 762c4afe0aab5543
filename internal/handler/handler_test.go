package handler

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

func TestChatModesMenu_FirstPage(t *testing.T) {
	_, keyboard := chatModesMenu(0)
	require.NotNil(t, keyboard)

	perPage := config.ChatModesPerPage
	total := len(domain.ChatModeKeys)
	wantModes := perPage
	if total < perPage {
		wantModes = total
	}

	rows := keyboard.InlineKeyboard
	if total > perPage {
		// Mode rows plus the navigation row.
		require.Len(t, rows, wantModes+1)
		nav := rows[len(rows)-1]
		require.Len(t, nav, 1)
		assert.Equal(t, "»", nav[0].Text)
		assert.Equal(t, "show_chat_modes|1", nav[0].CallbackData)
	} else {
		require.Len(t, rows, wantModes)
	}

	for i, row := range rows[:wantModes] {
		key := domain.ChatModeKeys[i]
		assert.Equal(t, "set_chat_mode|"+key, row[0].CallbackData)
		assert.Equal(t, domain.ChatModes[key].Name, row[0].Text)
	}
}

func TestChatModesMenu_ClampsPageRange(t *testing.T) {
	wantText, wantKeyboard := chatModesMenu(0)

	text, keyboard := chatModesMenu(-5)
	assert.Equal(t, wantText, text)
	assert.Equal(t, wantKeyboard, keyboard)

	lastPage := (len(domain.ChatModeKeys) - 1) / config.ChatModesPerPage
	wantText, wantKeyboard = chatModesMenu(lastPage)

	text, keyboard = chatModesMenu(lastPage + 10)
	assert.Equal(t, wantText, text)
	assert.Equal(t, wantKeyboard, keyboard)
}

func TestSettingsMenu_MarksCurrentModel(t *testing.T) {
	current := domain.AvailableTextModels[1]
	text, keyboard := settingsMenu(current)

	assert.Contains(t, text, "Select <b>model</b>:")

	var marked []string
	for _, row := range keyboard.InlineKeyboard {
		for _, btn := range row {
			if strings.HasPrefix(btn.Text, "✅ ") {
				marked = append(marked, btn.CallbackData)
			}
		}
	}
	require.Len(t, marked, 1)
	assert.Equal(t, "set_settings|"+current, marked[0])
}

func TestSettingsMenu_UnknownModelFallsBack(t *testing.T) {
	text, keyboard := settingsMenu("no-such-model")
	require.NotNil(t, keyboard)

	fallback := domain.AvailableTextModels[0]
	assert.Contains(t, text, domain.TextModels[fallback].Description)
}

func TestIsAddressed(t *testing.T) {
	h := New(Deps{BotID: 42, BotUsername: "chatgpt_bot"})

	private := &models.Message{
		Chat: models.Chat{Type: "private"},
		Text: "hello",
	}
	assert.True(t, h.isAddressed(private))

	group := &models.Message{
		Chat: models.Chat{Type: "supergroup"},
		Text: "hello everyone",
	}
	assert.False(t, h.isAddressed(group))

	mentioned := &models.Message{
		Chat: models.Chat{Type: "supergroup"},
		Text: "@chatgpt_bot write a poem",
	}
	assert.True(t, h.isAddressed(mentioned))

	replyToBot := &models.Message{
		Chat: models.Chat{Type: "supergroup"},
		Text: "and now shorter",
		ReplyToMessage: &models.Message{
			From: &models.User{ID: 42},
		},
	}
	assert.True(t, h.isAddressed(replyToBot))

	replyToHuman := &models.Message{
		Chat: models.Chat{Type: "supergroup"},
		Text: "sure",
		ReplyToMessage: &models.Message{
			From: &models.User{ID: 7},
		},
	}
	assert.False(t, h.isAddressed(replyToHuman))

	// A handler that doesn't know its own username never drops messages.
	anon := New(Deps{})
	assert.True(t, anon.isAddressed(group))
}
