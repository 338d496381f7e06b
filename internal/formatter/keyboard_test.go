package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixelka/tempmailbot/internal/bridge"
	appmodels "github.com/mixelka/tempmailbot/pkg/models"
)

func TestEncodeCallback(t *testing.T) {
	assert.Equal(t, "inbox:alice@example.com", EncodeCallback(appmodels.CallbackData{
		Action:  appmodels.CallbackInbox,
		Address: "alice@example.com",
	}))
	assert.Equal(t, "delete:alice@example.com", EncodeCallback(appmodels.CallbackData{
		Action:  appmodels.CallbackDelete,
		Address: "alice@example.com",
	}))
	assert.Equal(t, "view_msg:m1|alice@example.com", EncodeCallback(appmodels.CallbackData{
		Action:    appmodels.CallbackViewMessage,
		Address:   "alice@example.com",
		MessageID: "m1",
	}))
}

func TestEncodeCallbackFitsTelegramLimit(t *testing.T) {
	address := strings.Repeat("a", appmodels.MaxAddressLength-len("@example.com")) + "@example.com"
	messageID := "65f1c2a9b3e4d5f6a7b8c9d0"
	require.Len(t, messageID, appmodels.MessageIDLength)

	for _, data := range []appmodels.CallbackData{
		{Action: appmodels.CallbackInbox, Address: address},
		{Action: appmodels.CallbackDelete, Address: address},
		{Action: appmodels.CallbackViewMessage, Address: address, MessageID: messageID},
	} {
		token := EncodeCallback(data)
		assert.LessOrEqual(t, len(token), appmodels.MaxCallbackDataLength, token)
	}

	view := EncodeCallback(appmodels.CallbackData{Action: appmodels.CallbackViewMessage, Address: address, MessageID: messageID})
	assert.Len(t, view, appmodels.MaxCallbackDataLength)
}

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name string
		data string
		want appmodels.CallbackData
	}{
		{"inbox", "inbox:alice@example.com", appmodels.CallbackData{Action: appmodels.CallbackInbox, Address: "alice@example.com"}},
		{"delete", "delete:alice@example.com", appmodels.CallbackData{Action: appmodels.CallbackDelete, Address: "alice@example.com"}},
		{"view message", "view_msg:m1|alice@example.com", appmodels.CallbackData{Action: appmodels.CallbackViewMessage, Address: "alice@example.com", MessageID: "m1"}},
		{"split at first separators", "view_msg:m1|a|b:c", appmodels.CallbackData{Action: appmodels.CallbackViewMessage, Address: "a|b:c", MessageID: "m1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCallback(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCallbackMalformed(t *testing.T) {
	for _, data := range []string{"", "inbox", "inbox:", "view_msg:m1", "view_msg:|a@b.c", "copy_code:1", `{"action":"delete"}`} {
		_, err := DecodeCallback(data)
		assert.ErrorIs(t, err, ErrInvalidCallback, data)
	}
}

func TestBuildChoiceKeyboard(t *testing.T) {
	kb := BuildChoiceKeyboard([]bridge.Choice{
		{Label: "a@example.com", Data: appmodels.CallbackData{Action: appmodels.CallbackInbox, Address: "a@example.com"}},
		{Label: "b@example.com", Data: appmodels.CallbackData{Action: appmodels.CallbackInbox, Address: "b@example.com"}},
	})

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "a@example.com", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "inbox:b@example.com", kb.InlineKeyboard[1][0].CallbackData)
}

func TestBuildInboxKeyboard(t *testing.T) {
	kb := BuildInboxKeyboard(&bridge.Inbox{
		Address: "alice@example.com",
		Messages: []bridge.MessageSummary{
			{ID: "m2", FromName: "Bob", Subject: "Hello"},
		},
		Total: 1,
	})

	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "👤 Bob | Hello", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "view_msg:m2|alice@example.com", kb.InlineKeyboard[0][0].CallbackData)
}

func TestBuildMessageKeyboard(t *testing.T) {
	kb := BuildMessageKeyboard("alice@example.com")

	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "inbox:alice@example.com", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "delete:alice@example.com", kb.InlineKeyboard[0][1].CallbackData)
}
