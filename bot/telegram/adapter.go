package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/voxnote/bot"
)

// Fetcher downloads voice attachments by Telegram file_id. It
// implements ingestion.AttachmentFetcher.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a Fetcher over the given client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch resolves a file_id and downloads its bytes.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	file, err := f.client.GetFile(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolving attachment %q: %w", ref, err)
	}
	data, err := f.client.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return nil, fmt.Errorf("downloading attachment %q: %w", ref, err)
	}
	return data, nil
}

// Responder sends bot replies through the Telegram API. It implements
// bot.Responder.
type Responder struct {
	client *Client
}

// NewResponder creates a Responder over the given client.
func NewResponder(client *Client) *Responder {
	return &Responder{client: client}
}

func (r *Responder) Send(ctx context.Context, chatID int64, text string) error {
	return r.client.SendMessage(ctx, SendMessageRequest{
		ChatID: chatID,
		Text:   text,
	})
}

func (r *Responder) Reply(ctx context.Context, chatID int64, replyTo int64, text string) error {
	// Summary replies wrap the text in code fences; Markdown renders
	// them instead of showing literal backticks.
	return r.client.SendMessage(ctx, SendMessageRequest{
		ChatID:           chatID,
		Text:             text,
		ParseMode:        "Markdown",
		ReplyToMessageID: replyTo,
	})
}

func (r *Responder) PromptChoice(ctx context.Context, chatID int64, text string, choices []bot.ChoiceButton) error {
	row := make([]InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		row = append(row, InlineKeyboardButton{
			Text:         choice.Label,
			CallbackData: choice.Data,
		})
	}
	return r.client.SendMessage(ctx, SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{row}},
	})
}

const (
	defaultPollTimeout = 30 * time.Second
	defaultPoolSize    = 16
)

// Adapter runs the long-poll loop, translating Telegram updates into
// bot events and dispatching each on a worker pool.
type Adapter struct {
	client      *Client
	bot         *bot.Bot
	pool        *ants.Pool
	pollTimeout time.Duration
	handleTime  time.Duration
	logger      *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter) error

// WithPollTimeout sets the long-poll timeout.
func WithPollTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) error {
		if d <= 0 {
			return errors.New("poll timeout must be positive")
		}
		a.pollTimeout = d
		return nil
	}
}

// WithPoolSize sets the number of concurrent update handlers.
func WithPoolSize(n int) AdapterOption {
	return func(a *Adapter) error {
		if n < 1 {
			return errors.New("pool size must be at least 1")
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		a.pool.Release()
		a.pool = pool
		return nil
	}
}

// WithAdapterLogger sets the logger for the poll loop.
func WithAdapterLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		a.logger = logger
		return nil
	}
}

// NewAdapter creates an adapter over a client and a bot engine.
func NewAdapter(client *Client, b *bot.Bot, opts ...AdapterOption) (*Adapter, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if b == nil {
		return nil, errors.New("bot cannot be nil")
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		client:      client,
		bot:         b,
		pool:        pool,
		pollTimeout: defaultPollTimeout,
		handleTime:  5 * time.Minute,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return a, nil
}

// Run polls for updates until ctx is cancelled. It verifies the token
// on entry with getMe.
func (a *Adapter) Run(ctx context.Context) error {
	me, err := a.client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("verifying bot token: %w", err)
	}
	a.logger.Info("telegram bot online", "username", me.Username, "id", me.ID)

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, next, err := a.client.GetUpdates(ctx, offset, a.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if IsPollTimeout(err) {
				continue
			}
			a.logger.Error("polling for updates failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}
		offset = next

		for _, update := range updates {
			update := update
			if err := a.pool.Submit(func() {
				a.handleUpdate(ctx, update)
			}); err != nil {
				a.logger.Error("dispatching update failed",
					"update_id", update.UpdateID, "error", err)
			}
		}
	}
}

// Close releases the worker pool. Pending handlers finish first.
func (a *Adapter) Close() {
	a.pool.Release()
}

func (a *Adapter) handleUpdate(ctx context.Context, update Update) {
	handleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.handleTime)
	defer cancel()

	eventID := uuid.NewString()

	switch {
	case update.Message != nil:
		a.bot.HandleMessage(handleCtx, translateMessage(eventID, update.Message))
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if err := a.client.AnswerCallbackQuery(handleCtx, cb.ID); err != nil {
			a.logger.Warn("answering callback query failed",
				"event_id", eventID, "error", err)
		}
		a.bot.HandleCallback(handleCtx, translateCallback(eventID, cb))
	default:
		a.logger.Debug("ignoring unsupported update",
			"event_id", eventID, "update_id", update.UpdateID)
	}
}

func translateMessage(eventID string, msg *MessageData) bot.Message {
	out := bot.Message{
		EventID:   eventID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
		Timestamp: time.Unix(msg.Date, 0).UTC(),
	}
	if msg.Chat != nil {
		out.ChatID = msg.Chat.ID
	}
	if msg.From != nil {
		out.UserID = msg.From.ID
		out.Username = msg.From.DisplayName()
	}
	if msg.Voice != nil {
		out.VoiceRef = msg.Voice.FileID
	}
	if msg.ReplyTo != nil {
		reply := &bot.ReplyContext{Text: msg.ReplyTo.Text}
		if msg.ReplyTo.Voice != nil {
			reply.VoiceRef = msg.ReplyTo.Voice.FileID
		}
		out.Reply = reply
	}
	return out
}

func translateCallback(eventID string, cb *CallbackQuery) bot.Callback {
	out := bot.Callback{
		EventID: eventID,
		Data:    cb.Data,
	}
	if cb.From != nil {
		out.UserID = cb.From.ID
	}
	if cb.Message != nil {
		out.MessageID = cb.Message.MessageID
		if cb.Message.Chat != nil {
			out.ChatID = cb.Message.Chat.ID
		}
	}
	return out
}
