package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/tavares/listabot/internal/export"
	"github.com/tavares/listabot/internal/service"
)

// ---------------------------------------------------------------------------
// SelectHandler – /select <id>
// ---------------------------------------------------------------------------

// SelectHandler handles the /select command, toggling a list in and out of
// the export selection.
type SelectHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewSelectHandler creates a new SelectHandler.
func NewSelectHandler(svc *service.Service, logger *logrus.Logger) *SelectHandler {
	return &SelectHandler{svc: svc, logger: logger}
}

// Handle processes the /select command.
func (h *SelectHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	id, ok := parseIDArg(bot, message, args, "/select 3")
	if !ok {
		return nil
	}

	nowSelected := !h.svc.IsSelected(id)
	h.svc.ToggleSelection(id, nowSelected)

	var text string
	if nowSelected {
		text = fmt.Sprintf("☑️ List *#%d* marked for export (%d selected).", id, len(h.svc.SelectedLists()))
	} else {
		text = fmt.Sprintf("⬜ List *#%d* unmarked (%d selected).", id, len(h.svc.SelectedLists()))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	return nil
}

// ---------------------------------------------------------------------------
// ExportHandler – /export excel|pdf
// ---------------------------------------------------------------------------

// ExportHandler handles the /export command, running the export pipeline over
// the selected lists with the chosen format.
type ExportHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(svc *service.Service, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

// Handle processes the /export command.
func (h *ExportHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ids, ok := h.svc.ExportSelected()
	if !ok {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ No lists selected. Mark lists first with `/select <id>`.")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	if len(args) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("📤 *%d list(s) selected.*\nChoose a format:\n`/export excel`\n`/export pdf`", len(ids)))
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	format, err := export.ParseFormat(args[0])
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Unknown format. Use `/export excel` or `/export pdf`.")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	result := h.svc.Export(context.Background(), ids, format)
	if !result.OK {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("❌ Export failed: %s", result.Reason))
		bot.Send(msg)
		return nil
	}

	text := fmt.Sprintf("✅ *%s* saved!", filepath.Base(result.Path))
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"file":    result.Path,
		"format":  format,
	}).Info("Export delivered")

	return nil
}
