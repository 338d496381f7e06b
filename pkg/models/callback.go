package models

// CallbackAction type of callback action
type CallbackAction string

const (
	CallbackInbox       CallbackAction = "inbox"
	CallbackDelete      CallbackAction = "delete"
	CallbackViewMessage CallbackAction = "view_msg"
)

// CallbackData structure for inline button callback.
// Encoded as "action:address" or "view_msg:messageID|address".
type CallbackData struct {
	Action    CallbackAction
	Address   string
	MessageID string // only for CallbackViewMessage
}

const (
	// MaxCallbackDataLength Telegram limit for inline button data, in bytes
	MaxCallbackDataLength = 64
	// MessageIDLength mail.gw message ids are 24 hex characters
	MessageIDLength = 24
	// MaxAddressLength longest address whose "view_msg:id|address" token
	// still fits MaxCallbackDataLength
	MaxAddressLength = MaxCallbackDataLength - len(CallbackViewMessage) - len(":|") - MessageIDLength
)
