package mailgw

import (
	"bytes"
	"encoding/json"
	"time"
)

// Domain is an entry of the provider domain catalog
type Domain struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	IsActive  bool   `json:"isActive"`
	IsPrivate bool   `json:"isPrivate"`
}

// Account is the provider record of a registered mailbox
type Account struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Quota     int64     `json:"quota"`
	Used      int64     `json:"used"`
	CreatedAt time.Time `json:"createdAt"`
}

// Address is a sender or recipient
type Address struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// MessageSummary is a message as listed by GET /messages
type MessageSummary struct {
	ID             string    `json:"id"`
	From           Address   `json:"from"`
	To             []Address `json:"to"`
	Subject        string    `json:"subject"`
	Intro          string    `json:"intro"`
	Seen           bool      `json:"seen"`
	HasAttachments bool      `json:"hasAttachments"`
	Size           int64     `json:"size"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Attachment metadata of a message
type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Message is the full detail returned by GET /messages/{id}
type Message struct {
	ID             string       `json:"id"`
	From           Address      `json:"from"`
	To             []Address    `json:"to"`
	Subject        string       `json:"subject"`
	Text           string       `json:"text"`
	HTML           []string     `json:"html"`
	HasAttachments bool         `json:"hasAttachments"`
	Attachments    []Attachment `json:"attachments"`
	CreatedAt      time.Time    `json:"createdAt"`
}

type tokenResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// decodeCollection accepts both the JSON-LD envelope ({"hydra:member": [...]})
// and a plain JSON array.
func decodeCollection[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	var items []T
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope struct {
		Members []T `json:"hydra:member"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return envelope.Members, nil
}
