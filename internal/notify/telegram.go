package notify

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// TelegramNotifier pushes notifications to a staff Telegram chat. Recipients
// are ignored for now: everything lands in the single configured chat, with
// the recipient name prefixed into the message.
type TelegramNotifier struct {
	BotAPI      *tgbotapi.BotAPI
	StaffChatID int64
}

// NewTelegramNotifier authorizes the bot. staffChat is the numeric chat id as
// a string, straight from the environment.
func NewTelegramNotifier(token, staffChat string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	chatID, err := strconv.ParseInt(staffChat, 10, 64)
	if err != nil {
		return nil, err
	}

	log.Infof("Telegram notifier authorized on account %s", bot.Self.UserName)
	return &TelegramNotifier{BotAPI: bot, StaffChatID: chatID}, nil
}

func (t *TelegramNotifier) Notify(recipient, templateID string, vars map[string]string) {
	text := "[" + recipient + "] " + RenderMessage(templateID, vars)
	go func() {
		msg := tgbotapi.NewMessage(t.StaffChatID, text)
		if _, err := t.BotAPI.Send(msg); err != nil {
			log.WithError(err).WithField("template", templateID).
				Warn("telegram notification failed")
		}
	}()
}
