package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wateryy/internal/donation"
	"wateryy/internal/hydration"
	"wateryy/internal/model"
	"wateryy/internal/stats"
)

const (
	msgNotYourReminder = "This reminder is not for you!"
	msgAlreadyLogged   = "Already logged ✅"
	msgRateLimited     = "⏳ Too many requests, slow down a little."
	msgUnknownDonation = "Unknown donation method"
	msgUnknownCommand  = "🤔 Unknown command. Use /help to see what I can do."
	msgNoBMI           = "❌ Please set your BMI first using `/setbmi weight height`"

	msgStartFailed   = "❌ Could not start reminders due to a server error."
	msgStopFailed    = "❌ Could not stop reminders due to a server error."
	msgSetFailed     = "❌ Could not update settings due to a server error."
	msgSetBMIFailed  = "❌ Could not save BMI due to a server error."
	msgAddFailed     = "❌ Error adding water intake"
	msgStatsFailed   = "❌ Could not fetch stats due to a server error."
	msgChartFailed   = "❌ Could not generate the stats chart. Please try again later."
	msgInfoFailed    = "❌ Could not fetch water intake info due to a server error."
	msgSuggestFailed = "❌ Could not save your suggestion."
	msgDrinkFailed   = "❌ Error logging water intake"

	statsFilename = "water_stats.png"
	qrFilename    = "qr-code.png"
)

const (
	callbackDrink  = "drink:"
	callbackCrypto = "crypto:"
)

var helpCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start water reminders"},
	{Command: "stop", Description: "Stop water reminders"},
	{Command: "set", Description: "Set timer & amount"},
	{Command: "add", Description: "Add manual water intake"},
	{Command: "stats", Description: "Show water stats with charts"},
	{Command: "setbmi", Description: "Set BMI data"},
	{Command: "waterintakeinfo", Description: "Show intake & BMI info"},
	{Command: "donate", Description: "Support the bot ❤️"},
	{Command: "suggest", Description: "Submit suggestions or issues"},
	{Command: "help", Description: "Show this help menu"},
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func startText(s *model.UserSettings) string {
	return fmt.Sprintf("✅ Water reminders started! I'll remind you every %d minutes to drink %dml.", s.TimerMinutes, s.WaterAmount)
}

func stopText() string {
	return "⏹️ Water reminders stopped."
}

func setText(r SetRequest) string {
	return fmt.Sprintf("⚙️ Settings updated! Timer: %d minutes, Amount: %dml", r.Timer, r.Amount)
}

func setBMIText(bmi hydration.BMIInfo, goal int) string {
	return fmt.Sprintf("✅ BMI info saved!\n📊 BMI: %s\n💧 Recommended daily intake: %dml (%sL)",
		bmi, goal, hydration.Liters(goal))
}

func addText(amount int) string {
	return fmt.Sprintf("✅ Added %dml to your water intake!", amount)
}

func noStatsText(title string) string {
	return fmt.Sprintf("No water intake data for %s.", strings.ToLower(title))
}

func statsCaption(r *stats.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💧 *Water Intake Stats - %s*\n\n", r.Title)
	fmt.Fprintf(&sb, "*Total:* %dml (%sL)\n", r.Total, hydration.Liters(r.Total))
	fmt.Fprintf(&sb, "*Average/Day:* %dml\n", r.Average)
	fmt.Fprintf(&sb, "*Daily Goal:* %dml", r.Goal)
	return sb.String()
}

func intakeInfoText(info *stats.IntakeInfo) string {
	var sb strings.Builder
	sb.WriteString("💧 *Your Water Intake Info*\n\n")
	fmt.Fprintf(&sb, "📏 *Height:* %scm\n", formatNumber(info.HeightCM))
	fmt.Fprintf(&sb, "⚖️ *Weight:* %skg\n", formatNumber(info.WeightKG))
	fmt.Fprintf(&sb, "📊 *BMI:* %s\n", info.BMI)
	fmt.Fprintf(&sb, "🎯 *Daily Goal:* %dml (%sL)\n", info.Goal, hydration.Liters(info.Goal))
	fmt.Fprintf(&sb, "💧 *Today's Intake:* %dml (%.1f%%)\n", info.Today, info.Percentage)
	fmt.Fprintf(&sb, "📈 *Remaining:* %dml\n\n", info.Remaining)
	fmt.Fprintf(&sb, "ℹ️ *Why This Amount?*\nBased on your body weight (%skg), the recommended water intake is approximately %dml per kilogram of body weight per day. This helps maintain proper hydration for your body's needs.",
		formatNumber(info.WeightKG), hydration.MLPerKG)
	return sb.String()
}

func suggestText(s *model.Suggestion) string {
	return fmt.Sprintf("📬 *Suggestion Submitted*\n\n*Type:* %s\n*Submitted By:* %s\n*Content:* %s",
		s.Type, escape(s.Username), escape(s.Content))
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("📘 *Bot Help Menu*\n\nHere are all available commands:\n\n")
	for _, c := range helpCommands {
		fmt.Fprintf(&sb, "/%s - %s\n", c.Command, escape(c.Description))
	}
	sb.WriteString("\nThanks for using the bot!")
	return sb.String()
}

func donateText() string {
	return "💝 *Support the Bot*\n\n" +
		"Thank you for considering supporting this bot!\n\n" +
		"Your donations help keep the bot running 24/7 and support future development.\n\n" +
		"*Select a cryptocurrency below to view the donation address and QR code:*"
}

func donateKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range donation.Rows() {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, c := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(c.Emoji+" "+c.Label, callbackCrypto+c.Key))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// cryptoText is the donation details message. withQR selects the photo caption variant.
func cryptoText(c donation.Currency, withQR bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 *%s Donation*\n\n", c.Name)
	fmt.Fprintf(&sb, "*Network:* %s\n\n", c.Network)
	fmt.Fprintf(&sb, "*Address:*\n`%s`\n\n", c.Address)
	sb.WriteString("⚠️ *Important:* Make sure you're sending on the correct network!\n\n")
	if withQR {
		sb.WriteString("📱 Scan the QR code or copy the address above.\n\n")
	} else {
		sb.WriteString("Copy the address above to make your donation.\n\n")
	}
	sb.WriteString("Thank you for your support! ❤️\n_Double-check the address before sending!_")
	return sb.String()
}

func reminderText(amount int) string {
	return fmt.Sprintf("💧 <b>Water Reminder!</b> 💧\nTime to drink %dml of water!", amount)
}

func reminderKeyboard(userID int64, amount int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💧 I Drank!", drinkData(userID, amount)),
		),
	)
}

func drinkData(userID int64, amount int) string {
	return fmt.Sprintf("%s%d:%d", callbackDrink, userID, amount)
}

func parseDrinkData(data string) (userID int64, amount int, ok bool) {
	parts := strings.Split(strings.TrimPrefix(data, callbackDrink), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	amount, err = strconv.Atoi(parts[1])
	if err != nil || amount <= 0 {
		return 0, 0, false
	}
	return userID, amount, true
}

// completedText strikes through the original reminder.
func completedText(original string) string {
	return "<s>" + html.EscapeString(original) + "</s> ✅ Completed"
}

func confirmText(amount int) string {
	return fmt.Sprintf("✅ Great job! Logged %dml of water.", amount)
}

func markdownMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return msg
}

func photoMessage(chatID int64, name string, data []byte, caption string) tgbotapi.PhotoConfig {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	return photo
}
