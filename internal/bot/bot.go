package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/xaenox/chatcore/internal/engine"
	"github.com/xaenox/chatcore/internal/models"
	"go.uber.org/zap"
)

// Bot connects the dispatcher to Telegram. Messages are dispatched in arrival
// order; only the typing indicator, delay and send run in the background.
type Bot struct {
	api         *tgbotapi.BotAPI
	dispatcher  *engine.Dispatcher
	typingDelay time.Duration
	timeout     int
	logger      *zap.Logger
	wg          sync.WaitGroup
}

func New(token string, dispatcher *engine.Dispatcher, typingDelay time.Duration, timeout int, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	return &Bot{
		api:         api,
		dispatcher:  dispatcher,
		typingDelay: typingDelay,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Start polls for updates until ctx is cancelled, then waits for pending deliveries
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if len(message.NewChatMembers) > 0 {
		b.handleNewMembers(ctx, message)
		return
	}

	if message.IsCommand() && message.Command() == "start" {
		b.deliver(ctx, message.Chat.ID, 0, b.dispatcher.Welcome(displayNames(message.From)))
		return
	}

	msg := b.toMessage(message)
	if msg.Text == "" {
		return
	}

	b.logger.Debug("New message",
		zap.String("message_id", msg.ID),
		zap.String("sender_id", msg.SenderID),
		zap.Bool("group", msg.IsGroup))

	reply, ok := b.dispatcher.Handle(ctx, msg)
	if !ok {
		return
	}

	replyTo := 0
	if msg.IsGroup {
		replyTo = message.MessageID
	}
	b.deliver(ctx, message.Chat.ID, replyTo, reply)
}

func (b *Bot) handleNewMembers(ctx context.Context, message *tgbotapi.Message) {
	var names []string
	for i := range message.NewChatMembers {
		member := &message.NewChatMembers[i]
		if member.ID == b.api.Self.ID {
			continue
		}
		names = append(names, displayNames(member)...)
	}
	if len(names) == 0 {
		return
	}
	b.deliver(ctx, message.Chat.ID, 0, b.dispatcher.Welcome(names))
}

// toMessage extracts the text or media caption; commands are passed on without their slash
func (b *Bot) toMessage(message *tgbotapi.Message) models.Message {
	text := message.Text
	if text == "" {
		text = message.Caption
	}
	if message.IsCommand() {
		text = strings.TrimSpace(message.Command() + " " + message.CommandArguments())
	}

	msg := models.Message{
		ID:         uuid.New().String(),
		ChatID:     strconv.FormatInt(message.Chat.ID, 10),
		Text:       text,
		IsGroup:    message.Chat.IsGroup() || message.Chat.IsSuperGroup(),
		ReceivedAt: message.Time(),
	}
	if message.From != nil {
		msg.SenderID = strconv.FormatInt(message.From.ID, 10)
		msg.FromBot = message.From.IsBot || message.From.ID == b.api.Self.ID
	} else {
		msg.SenderID = msg.ChatID
	}
	return msg
}

func (b *Bot) deliver(ctx context.Context, chatID int64, replyTo int, text string) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			b.logger.Warn("Failed to send typing action",
				zap.Error(err),
				zap.Int64("chat_id", chatID))
		}

		if b.typingDelay > 0 {
			timer := time.NewTimer(b.typingDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}

		b.sendMessage(chatID, replyTo, text)
	}()
}

func (b *Bot) sendMessage(chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func displayNames(user *tgbotapi.User) []string {
	if user == nil {
		return nil
	}
	if user.UserName != "" {
		return []string{user.UserName}
	}
	return []string{user.FirstName}
}
