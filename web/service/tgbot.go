package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/AlvanCjh/paddock-panel/logger"
	"github.com/AlvanCjh/paddock-panel/paddock"
	"github.com/AlvanCjh/paddock-panel/web/locale"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

var (
	bot       *telego.Bot
	adminIds  []int64
	isRunning bool
)

// Tgbot pushes moderation alerts to the admin Telegram chat. It only sends;
// all actions happen in the panel.
type Tgbot struct {
	settingService SettingService
}

func (t *Tgbot) Start() error {
	tgBotToken, err := t.settingService.GetTgBotToken()
	if err != nil || tgBotToken == "" {
		logger.Warning("Get TgBotToken failed:", err)
		return err
	}

	tgBotChatId, err := t.settingService.GetTgBotChatId()
	if err != nil {
		logger.Warning("Get TgBotChatId failed:", err)
		return err
	}

	adminIds = adminIds[:0]
	for _, adminId := range strings.Split(tgBotChatId, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(adminId))
		if err != nil {
			logger.Warning("Failed to parse admin id from TgBotChatId:", err)
			return err
		}
		adminIds = append(adminIds, int64(id))
	}

	bot, err = telego.NewBot(tgBotToken)
	if err != nil {
		logger.Warning("Get tgbot's api error:", err)
		return err
	}

	isRunning = true
	logger.Info("Telegram alerts enabled")
	return nil
}

func (t *Tgbot) IsRunning() bool {
	return isRunning
}

func (t *Tgbot) Stop() {
	isRunning = false
	adminIds = nil
	bot = nil
}

// NotifyFlagged alerts the admin chat that a scan flagged a post.
func (t *Tgbot) NotifyFlagged(post *paddock.BlogPost, report *paddock.ModerationReport) {
	if !isRunning {
		return
	}
	msg := locale.I18n(locale.Bot, "tgbot.flagged",
		"Title=="+post.Title,
		"Author=="+post.AuthorName,
		"Category=="+report.Category,
		"Reason=="+report.Reason)
	t.SendMsgToAdmins(msg)
}

// NotifyBacklog alerts the admin chat that the stale sweep found more posts
// needing a scan than the configured threshold.
func (t *Tgbot) NotifyBacklog(needScan, total int) {
	if !isRunning {
		return
	}
	msg := locale.I18n(locale.Bot, "tgbot.backlog",
		"NeedScan=="+strconv.Itoa(needScan),
		"Total=="+strconv.Itoa(total))
	t.SendMsgToAdmins(msg)
}

func (t *Tgbot) SendMsgToAdmins(msg string) {
	if msg == "" {
		return
	}
	for _, adminId := range adminIds {
		params := telego.SendMessageParams{
			ChatID:    tu.ID(adminId),
			Text:      msg,
			ParseMode: "HTML",
		}
		if _, err := bot.SendMessage(context.Background(), &params); err != nil {
			logger.Warning("Error sending telegram message:", err)
		}
	}
}
