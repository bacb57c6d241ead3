// Package bot is the Telegram transport: it parses commands, runs them against
// the store and renders replies.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wateryy/internal/cache"
	"wateryy/internal/db"
	"wateryy/internal/metrics"
	"wateryy/internal/qr"
	"wateryy/internal/stats"
)

type telegramClient interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	SelfUser() tgbotapi.User
}

type realTelegramClient struct {
	api *tgbotapi.BotAPI
}

func (c *realTelegramClient) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	return c.api.Send(msg)
}

func (c *realTelegramClient) Request(msg tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return c.api.Request(msg)
}

func (c *realTelegramClient) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.api.GetUpdatesChan(cfg)
}

func (c *realTelegramClient) StopReceivingUpdates() {
	c.api.StopReceivingUpdates()
}

func (c *realTelegramClient) SelfUser() tgbotapi.User {
	return c.api.Self
}

// Deps are the collaborators the bot needs. Guard and Limiter fall back to
// in-process implementations when nil.
type Deps struct {
	Store   db.Store
	Stats   *stats.Service
	Guard   cache.OnceGuard
	Limiter cache.RateLimiter
	// QR renders donation addresses; defaults to qr.PNG.
	QR func(content string, size int) ([]byte, error)

	MaxConcurrentUpdates int
	Logger               *zerolog.Logger

	// Debug logs raw Bot API traffic.
	Debug bool
	// APIEndpoint overrides tgbotapi.APIEndpoint, e.g. for a local Bot API server.
	APIEndpoint string
}

// Bot handles Telegram updates and delivers reminders.
type Bot struct {
	tg      telegramClient
	store   db.Store
	stats   *stats.Service
	guard   cache.OnceGuard
	limiter cache.RateLimiter
	qr      func(string, int) ([]byte, error)
	sem     chan struct{}
	logger  *zerolog.Logger
}

func New(token string, deps Deps) (*Bot, error) {
	endpoint := deps.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: 90 * time.Second})
	if err != nil {
		return nil, err
	}
	api.Debug = deps.Debug
	return newBot(&realTelegramClient{api: api}, deps)
}

// NewWithTelegramClient allows injecting a mocked Telegram client for tests.
func NewWithTelegramClient(tg telegramClient, deps Deps) (*Bot, error) {
	return newBot(tg, deps)
}

func newBot(tg telegramClient, deps Deps) (*Bot, error) {
	if tg == nil {
		return nil, fmt.Errorf("telegram client is nil")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if deps.Logger == nil {
		l := zerolog.Nop()
		deps.Logger = &l
	}
	if deps.Stats == nil {
		deps.Stats = stats.NewService(deps.Store, nil)
	}
	if deps.Guard == nil {
		deps.Guard = cache.NewMemoryGuard(confirmGuardTTL)
	}
	if deps.QR == nil {
		deps.QR = qr.PNG
	}
	if deps.MaxConcurrentUpdates <= 0 {
		deps.MaxConcurrentUpdates = 16
	}
	return &Bot{
		tg:      tg,
		store:   deps.Store,
		stats:   deps.Stats,
		guard:   deps.Guard,
		limiter: deps.Limiter,
		qr:      deps.QR,
		sem:     make(chan struct{}, deps.MaxConcurrentUpdates),
		logger:  deps.Logger,
	}, nil
}

// RegisterCommands publishes the command list shown in Telegram clients.
func (b *Bot) RegisterCommands() error {
	_, err := b.tg.Request(tgbotapi.NewSetMyCommands(helpCommands...))
	return err
}

// Start polls updates until ctx is cancelled. Each update runs on its own goroutine.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)
	b.logger.Info().Str("username", b.tg.SelfUser().UserName).Msg("Bot authorized")

	if err := b.RegisterCommands(); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to register bot commands")
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			select {
			case b.sem <- struct{}{}:
			case <-ctx.Done():
				b.tg.StopReceivingUpdates()
				return
			}
			requestID := uuid.New().String()
			l := b.logger.With().Str("request_id", requestID).Logger()
			updateCtx := l.WithContext(ctx)

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-b.sem }()
				b.handleUpdate(updateCtx, &update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update *tgbotapi.Update) {
	l := zerolog.Ctx(ctx)
	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()

	if update.CallbackQuery != nil {
		l.Debug().
			Int64("user_id", update.CallbackQuery.From.ID).
			Str("data", update.CallbackQuery.Data).
			Msg("Handling callback query")
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		l.Debug().
			Int64("user_id", update.Message.From.ID).
			Str("text", update.Message.Text).
			Msg("Handling message")
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.From == nil || !msg.IsCommand() {
		return
	}
	l := zerolog.Ctx(ctx)

	if !b.allow(ctx, msg.From.ID) {
		metrics.IncRateLimited()
		b.reply(ctx, msg.Chat.ID, msgRateLimited)
		return
	}

	req, err := parseCommand(msg.Command(), msg.CommandArguments())
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			b.reply(ctx, msg.Chat.ID, vErr.Message)
		case errors.Is(err, errUnknownCommand):
			b.reply(ctx, msg.Chat.ID, msgUnknownCommand)
		default:
			l.Error().Err(err).Msg("Failed to parse command")
		}
		return
	}
	metrics.IncCommand(req.Command())

	switch r := req.(type) {
	case StartRequest:
		b.handleStart(ctx, msg)
	case StopRequest:
		b.handleStop(ctx, msg)
	case SetRequest:
		b.handleSet(ctx, msg, r)
	case SetBMIRequest:
		b.handleSetBMI(ctx, msg, r)
	case AddRequest:
		b.handleAdd(ctx, msg, r)
	case StatsRequest:
		b.handleStats(ctx, msg, r)
	case WaterIntakeInfoRequest:
		b.handleWaterIntakeInfo(ctx, msg)
	case DonateRequest:
		b.handleDonate(ctx, msg)
	case SuggestRequest:
		b.handleSuggest(ctx, msg, r)
	case HelpRequest:
		b.reply(ctx, msg.Chat.ID, helpText())
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.From == nil {
		return
	}
	switch {
	case strings.HasPrefix(cq.Data, callbackDrink):
		b.handleDrinkCallback(ctx, cq)
	case strings.HasPrefix(cq.Data, callbackCrypto):
		b.handleCryptoCallback(ctx, cq)
	default:
		b.answerCallback(ctx, tgbotapi.NewCallback(cq.ID, ""))
	}
}

// allow applies the per-user command rate limit. Limiter failures let the command through.
func (b *Bot) allow(ctx context.Context, userID int64) bool {
	if b.limiter == nil {
		return true
	}
	ok, err := b.limiter.Allow(ctx, strconv.FormatInt(userID, 10))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Rate limiter unavailable")
		return true
	}
	return ok
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	b.send(ctx, markdownMessage(chatID, text))
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) bool {
	if _, err := b.tg.Send(c); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send message")
		return false
	}
	return true
}

func (b *Bot) answerCallback(ctx context.Context, cfg tgbotapi.CallbackConfig) {
	if _, err := b.tg.Request(cfg); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback")
	}
}

// SendReminder delivers a reminder to the user's private chat.
func (b *Bot) SendReminder(ctx context.Context, userID int64, amount int) error {
	msg := tgbotapi.NewMessage(userID, reminderText(amount))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = reminderKeyboard(userID, amount)
	_, err := b.tg.Send(msg)
	return err
}
