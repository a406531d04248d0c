package messenger

import (
	"github.com/sandevgo/vndbot/internal/core"
	"github.com/tidwall/gjson"
)

// ParseUpdate maps one raw update object onto the closed Event union.
// Depending on the API surface that produced it, the message object may
// sit under "message" or be the update itself.
func ParseUpdate(raw []byte) core.Event {
	ev := core.Event{
		ID:  gjson.GetBytes(raw, "update_id").Int(),
		Raw: raw,
	}

	msg := gjson.GetBytes(raw, "message")
	if !msg.Exists() {
		msg = gjson.ParseBytes(raw)
	}

	switch {
	case msg.Get("text").Exists():
		ev.Kind = core.EventText
		ev.Text = msg.Get("text").String()
		ev.ChatID = resolveChatID(msg)
	case msg.Get("callback_data").Exists():
		ev.Kind = core.EventButton
		ev.CallbackData = msg.Get("callback_data").String()
		ev.ChatID = resolveButtonChatID(msg)
	default:
		ev.Kind = core.EventUnrecognized
	}
	return ev
}

// resolveChatID applies the two supported payload shapes in order: an
// explicit chat identifier, else the sender's login for private
// conversations.
func resolveChatID(msg gjson.Result) string {
	if id := msg.Get("chat.chat_id").String(); id != "" {
		return id
	}
	if msg.Get("chat.type").String() == "private" {
		return msg.Get("from.login").String()
	}
	return ""
}

// resolveButtonChatID is deliberately wider than resolveChatID: button
// payloads carry no reliable conversation-type marker, so the sender's
// login is the fallback regardless of chat type. The interaction came
// from a real user, and the reply is a fixed notice addressed to them.
func resolveButtonChatID(msg gjson.Result) string {
	if id := msg.Get("chat.chat_id").String(); id != "" {
		return id
	}
	return msg.Get("from.login").String()
}
