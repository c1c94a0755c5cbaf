package model

import (
	"encoding/json"
	"fmt"
)

type MessageType string

const (
	MessageTypeText    MessageType = "text"
	MessageTypeImage   MessageType = "image"
	MessageTypeSticker MessageType = "sticker"
)

func (t MessageType) String() string { return string(t) }

// Message is one unit of a push. The set of kinds is closed: only the types
// in this file implement it.
type Message interface {
	Type() MessageType
	message()
}

type TextMessage struct {
	Text string
}

type ImageMessage struct {
	OriginalContentURL string
	PreviewImageURL    string
}

type StickerMessage struct {
	PackageID string
	StickerID string
}

func (TextMessage) Type() MessageType    { return MessageTypeText }
func (ImageMessage) Type() MessageType   { return MessageTypeImage }
func (StickerMessage) Type() MessageType { return MessageTypeSticker }

func (TextMessage) message()    {}
func (ImageMessage) message()   {}
func (StickerMessage) message() {}

type textWire struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

type imageWire struct {
	Type               MessageType `json:"type"`
	OriginalContentURL string      `json:"originalContentUrl"`
	PreviewImageURL    string      `json:"previewImageUrl"`
}

type stickerWire struct {
	Type      MessageType `json:"type"`
	PackageID string      `json:"packageId"`
	StickerID string      `json:"stickerId"`
}

// encodeMessage maps a message unit to its LINE wire shape.
func encodeMessage(m Message) (any, error) {
	switch v := m.(type) {
	case TextMessage:
		return textWire{Type: MessageTypeText, Text: v.Text}, nil
	case ImageMessage:
		return imageWire{Type: MessageTypeImage, OriginalContentURL: v.OriginalContentURL, PreviewImageURL: v.PreviewImageURL}, nil
	case StickerMessage:
		return stickerWire{Type: MessageTypeSticker, PackageID: v.PackageID, StickerID: v.StickerID}, nil
	default:
		return nil, fmt.Errorf("unsupported message type %T", m)
	}
}

// PushPayload is the body of POST /v2/bot/message/push.
type PushPayload struct {
	To                   string
	Messages             []Message
	NotificationDisabled bool
}

type pushWire struct {
	To                   string `json:"to"`
	Messages             []any  `json:"messages"`
	NotificationDisabled bool   `json:"notificationDisabled,omitempty"` // only ever sent as true
}

func (p PushPayload) MarshalJSON() ([]byte, error) {
	w := pushWire{
		To:                   p.To,
		Messages:             make([]any, 0, len(p.Messages)),
		NotificationDisabled: p.NotificationDisabled,
	}
	for i, m := range p.Messages {
		enc, err := encodeMessage(m)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		w.Messages = append(w.Messages, enc)
	}
	return json.Marshal(w)
}
