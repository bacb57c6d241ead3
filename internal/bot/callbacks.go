package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"wateryy/internal/donation"
	"wateryy/internal/metrics"
	"wateryy/internal/model"
	"wateryy/internal/qr"
)

const confirmGuardTTL = 48 * time.Hour

// handleDrinkCallback logs a reminder confirmation. Each reminder message can be confirmed once.
func (b *Bot) handleDrinkCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	l := zerolog.Ctx(ctx)

	userID, amount, ok := parseDrinkData(cq.Data)
	if !ok {
		l.Warn().Str("data", cq.Data).Msg("Malformed drink callback")
		b.answerCallback(ctx, tgbotapi.NewCallback(cq.ID, ""))
		return
	}
	if cq.From.ID != userID {
		b.answerCallback(ctx, tgbotapi.NewCallbackWithAlert(cq.ID, msgNotYourReminder))
		return
	}

	var key string
	if cq.Message != nil {
		key = fmt.Sprintf("%d:%d", cq.Message.Chat.ID, cq.Message.MessageID)
	} else {
		key = "inline:" + cq.InlineMessageID
	}
	claimed, err := b.guard.Claim(ctx, key)
	if err != nil {
		l.Error().Err(err).Str("key", key).Msg("Confirmation guard unavailable")
		b.answerCallback(ctx, tgbotapi.NewCallbackWithAlert(cq.ID, msgDrinkFailed))
		return
	}
	if !claimed {
		b.answerCallback(ctx, tgbotapi.NewCallback(cq.ID, msgAlreadyLogged))
		return
	}

	if err := b.store.AddWaterLog(ctx, &model.WaterLog{UserID: userID, Amount: amount}); err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Error logging water intake")
		if rerr := b.guard.Release(ctx, key); rerr != nil {
			l.Warn().Err(rerr).Str("key", key).Msg("Failed to release confirmation guard")
		}
		b.answerCallback(ctx, tgbotapi.NewCallbackWithAlert(cq.ID, msgDrinkFailed))
		return
	}
	metrics.AddWaterLogged("reminder", amount)

	b.answerCallback(ctx, tgbotapi.NewCallback(cq.ID, confirmText(amount)))

	if cq.Message != nil {
		edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, completedText(cq.Message.Text))
		edit.ParseMode = tgbotapi.ModeHTML
		if _, err := b.tg.Request(edit); err != nil {
			l.Warn().Err(err).Msg("Failed to mark reminder as completed")
		}
	}
}

// handleCryptoCallback sends the wallet address with a QR code, or text only if the QR fails.
func (b *Bot) handleCryptoCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	key := cq.Data[len(callbackCrypto):]
	c, ok := donation.Lookup(key)
	if !ok {
		b.answerCallback(ctx, tgbotapi.NewCallbackWithAlert(cq.ID, msgUnknownDonation))
		return
	}
	b.answerCallback(ctx, tgbotapi.NewCallback(cq.ID, ""))

	chatID := cq.From.ID
	if cq.Message != nil {
		chatID = cq.Message.Chat.ID
	}

	png, err := b.qr(c.Address, qr.DefaultSize)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("currency", c.Key).Msg("Error generating QR code")
		b.reply(ctx, chatID, cryptoText(c, false))
		return
	}
	b.send(ctx, photoMessage(chatID, qrFilename, png, cryptoText(c, true)))
}
