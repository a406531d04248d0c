package handler

import (
	"context"

	"github.com/sandevgo/vndbot/internal/core"
	"github.com/sandevgo/vndbot/internal/router"
)

const (
	replyGreeting = "👋 Привет! Я RAG-бот для поиска по ВНД.\n\n" +
		"❓ Задайте мне любой вопрос по внутренним документам, и я найду ответ.\n" +
		"📂 База знаний обновляется автоматически."
	replyUnsupported = "⚠️ Эта функция временно недоступна в режиме RAG-бота."
)

// Answerer runs the retrieval pipeline for one question and delivers the
// result itself.
type Answerer interface {
	Answer(ctx context.Context, chatID, question string)
}

// Handler executes the routing decision for one event. It runs on a
// dispatcher goroutine, concurrently with the poll loop and with other
// handlers.
type Handler struct {
	messenger core.Messenger
	rag       Answerer
}

func New(messenger core.Messenger, rag Answerer) *Handler {
	return &Handler{
		messenger: messenger,
		rag:       rag,
	}
}

func (h *Handler) Handle(ctx context.Context, ev core.Event) error {
	action := router.Route(ev)
	switch action.Kind {
	case router.SendGreeting:
		return h.messenger.SendText(ctx, ev.ChatID, replyGreeting)
	case router.SendUnsupportedNotice:
		return h.messenger.SendText(ctx, ev.ChatID, replyUnsupported)
	case router.RunRetrieval:
		h.rag.Answer(ctx, ev.ChatID, action.Question)
		return nil
	default:
		return nil
	}
}
