// Package telegram connects the bot handler to the Telegram Bot API via long polling.
package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/farxc/consulta-energia/internal/bot"
	"github.com/farxc/consulta-energia/internal/logger"
)

// API is the subset of *tgbotapi.BotAPI the transport needs.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Handler answers one request with the text to send back.
type Handler interface {
	Handle(req bot.Request) string
}

type job struct {
	chatID int64
	req    bot.Request
}

// Transport fans updates out to a fixed set of workers keyed by user id, so
// messages from the same user are handled in the order they arrived.
type Transport struct {
	api            API
	handler        Handler
	appLogger      *logger.Logger
	workers        int
	pollingTimeout int
}

func New(api API, handler Handler, workers int, appLogger *logger.Logger) *Transport {
	if workers < 1 {
		workers = 1
	}
	return &Transport{
		api:            api,
		handler:        handler,
		appLogger:      appLogger,
		workers:        workers,
		pollingTimeout: 60,
	}
}

// Connect logs in to the Bot API with token.
func Connect(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	return api, nil
}

// Run polls for updates until ctx is done or the update channel closes, then
// waits for in-flight replies.
func (t *Transport) Run(ctx context.Context) {
	const component = "Telegram"

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = t.pollingTimeout
	updates := t.api.GetUpdatesChan(cfg)

	queues := make([]chan job, t.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan job, 32)
		wg.Add(1)
		go t.worker(queues[i], &wg)
	}

	t.appLogger.Info(component, "Polling for updates: workers=%d", t.workers)

	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
		t.appLogger.Info(component, "Stopped polling")
	}()

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			chatID, req, ok := ToRequest(update)
			if !ok {
				continue
			}
			queues[shard(req.UserID, t.workers)] <- job{chatID: chatID, req: req}
		}
	}
}

func shard(userID int64, n int) int {
	return int(uint64(userID) % uint64(n))
}

func (t *Transport) worker(queue <-chan job, wg *sync.WaitGroup) {
	const component = "Telegram"
	defer wg.Done()

	for j := range queue {
		text := t.handler.Handle(j.req)
		if text == "" {
			continue
		}
		if _, err := t.api.Send(tgbotapi.NewMessage(j.chatID, text)); err != nil {
			t.appLogger.Warn(component, "Failed to send reply: user=%d chat=%d error=%v", j.req.UserID, j.chatID, err)
		}
	}
}

// ToRequest converts a text message update into a handler request. Updates
// without a text message or sender are skipped.
func ToRequest(update tgbotapi.Update) (int64, bot.Request, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return 0, bot.Request{}, false
	}

	req := bot.Request{
		UserID:      msg.From.ID,
		DisplayName: FullName(msg.From),
		Text:        msg.Text,
	}
	if msg.IsCommand() {
		req.Command = msg.Command()
	}
	return msg.Chat.ID, req, true
}

// FullName joins first and last name the way Telegram clients display them.
func FullName(u *tgbotapi.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
