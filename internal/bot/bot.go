package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/example/growtalk/internal/tutor"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Core is the orchestration entry point the transport forwards into.
type Core interface {
	HandleIncoming(ctx context.Context, studentID int64, rawText string) error
}

// Bot bridges Telegram to the tutoring core: inbound messages are forwarded
// to the dispatcher, outbound messages flow through the Notifier.
type Bot struct {
	api      *tgbotapi.BotAPI
	notifier *Notifier
	judge    tutor.Judge
	core     Core
}

// New authorizes against the Telegram API with the given token.
func New(token string, judge tutor.Judge) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		notifier: NewNotifier(api),
		judge:    judge,
	}, nil
}

// Notifier exposes the outbound channel for wiring into the core.
func (b *Bot) Notifier() *Notifier {
	return b.notifier
}

// SetCore attaches the dispatcher. Must be called before Start.
func (b *Bot) SetCore(core Core) {
	b.core = core
}

// Start consumes Telegram updates until the context is cancelled. Updates for
// different students are handled concurrently; the core serializes per
// student.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			chatID := update.Message.Chat.ID
			text := update.Message.Text
			go func() {
				if err := b.core.HandleIncoming(ctx, chatID, text); err != nil {
					log.Printf("Error handling message from %d: %v", chatID, err)
				}
			}()
		}
	}
}

// Stop shuts down the update stream.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// SendMorningGreeting pushes the judge-generated daily invitation to a
// student. Used by the scheduler.
func (b *Bot) SendMorningGreeting(ctx context.Context, studentID int64, name string) error {
	greeting, err := b.judge.GreetStudent(ctx, name)
	if err != nil {
		return err
	}
	return b.notifier.Send(studentID, greeting)
}
