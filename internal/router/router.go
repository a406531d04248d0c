package router

import (
	"strings"

	"github.com/sandevgo/vndbot/internal/core"
)

type ActionKind int

const (
	Ignore ActionKind = iota
	SendGreeting
	SendUnsupportedNotice
	RunRetrieval
)

// Action is the routing decision for one event.
type Action struct {
	Kind     ActionKind
	Question string
}

var commandPrefixes = []string{"/start", "/help"}

// Route classifies an event. Events without a resolvable origin chat are
// dropped outright: there is nowhere to send a reply.
func Route(ev core.Event) Action {
	if ev.ChatID == "" {
		return Action{Kind: Ignore}
	}

	switch ev.Kind {
	case core.EventText:
		for _, prefix := range commandPrefixes {
			if strings.HasPrefix(ev.Text, prefix) {
				return Action{Kind: SendGreeting}
			}
		}
		return Action{Kind: RunRetrieval, Question: ev.Text}
	case core.EventButton:
		return Action{Kind: SendUnsupportedNotice}
	default:
		return Action{Kind: Ignore}
	}
}
