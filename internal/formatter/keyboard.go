package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/mixelka/tempmailbot/internal/bridge"
	appmodels "github.com/mixelka/tempmailbot/pkg/models"
)

// ErrInvalidCallback is returned for callback data that is not a choice token
var ErrInvalidCallback = errors.New("invalid callback data")

// BuildChoiceKeyboard creates one button row per mailbox choice
func BuildChoiceKeyboard(choices []bridge.Choice) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         choice.Label,
			CallbackData: EncodeCallback(choice.Data),
		}})
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// BuildInboxKeyboard creates one button per listed message
func BuildInboxKeyboard(inbox *bridge.Inbox) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(inbox.Messages))
	for _, msg := range inbox.Messages {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text: fmt.Sprintf("👤 %s | %s", msg.FromName, msg.Subject),
			CallbackData: EncodeCallback(appmodels.CallbackData{
				Action:    appmodels.CallbackViewMessage,
				Address:   inbox.Address,
				MessageID: msg.ID,
			}),
		}})
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// BuildMessageKeyboard creates the navigation row under a message view
func BuildMessageKeyboard(address string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{
				Text: "⬅️ Back to inbox",
				CallbackData: EncodeCallback(appmodels.CallbackData{
					Action:  appmodels.CallbackInbox,
					Address: address,
				}),
			},
			{
				Text: "🗑 Delete email",
				CallbackData: EncodeCallback(appmodels.CallbackData{
					Action:  appmodels.CallbackDelete,
					Address: address,
				}),
			},
		}},
	}
}

// EncodeCallback encodes callback data to string.
// Telegram rejects callback data longer than 64 bytes.
func EncodeCallback(data appmodels.CallbackData) string {
	if data.Action == appmodels.CallbackViewMessage {
		return string(data.Action) + ":" + data.MessageID + "|" + data.Address
	}
	return string(data.Action) + ":" + data.Address
}

// DecodeCallback decodes callback data from string
func DecodeCallback(data string) (appmodels.CallbackData, error) {
	action, value, ok := strings.Cut(data, ":")
	if !ok || value == "" {
		return appmodels.CallbackData{}, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}

	switch appmodels.CallbackAction(action) {
	case appmodels.CallbackInbox, appmodels.CallbackDelete:
		return appmodels.CallbackData{
			Action:  appmodels.CallbackAction(action),
			Address: value,
		}, nil
	case appmodels.CallbackViewMessage:
		messageID, address, ok := strings.Cut(value, "|")
		if !ok || messageID == "" || address == "" {
			return appmodels.CallbackData{}, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
		}
		return appmodels.CallbackData{
			Action:    appmodels.CallbackViewMessage,
			Address:   address,
			MessageID: messageID,
		}, nil
	default:
		return appmodels.CallbackData{}, fmt.Errorf("%w: unknown action %q", ErrInvalidCallback, action)
	}
}
