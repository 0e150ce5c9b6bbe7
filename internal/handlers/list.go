package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/tavares/listabot/internal/service"
)

// ---------------------------------------------------------------------------
// ListCreateHandler – /newlist <name>
// ---------------------------------------------------------------------------

// ListCreateHandler handles the /newlist command to create a shopping list.
type ListCreateHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewListCreateHandler creates a new ListCreateHandler.
func NewListCreateHandler(svc *service.Service, logger *logrus.Logger) *ListCreateHandler {
	return &ListCreateHandler{svc: svc, logger: logger}
}

// Handle processes the /newlist command.
func (h *ListCreateHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Please provide a list name.\nUsage: `/newlist Groceries`")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	id, err := h.svc.CreateList(context.Background(), name)
	if err != nil {
		return fmt.Errorf("create list: %w", err)
	}

	text := fmt.Sprintf("📝 *List created!*\n\n*#%d* — %s\nOpen it with `/open %d`", id, name, id)
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"list_id": id,
	}).Info("List created via bot")

	return nil
}

// ---------------------------------------------------------------------------
// ListsHandler – /lists [filter]
// ---------------------------------------------------------------------------

// ListsHandler handles the /lists command to display all shopping lists,
// newest first, marking the ones selected for export. An optional filter
// narrows the result to lists whose name contains it.
type ListsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewListsHandler creates a new ListsHandler.
func NewListsHandler(svc *service.Service, logger *logrus.Logger) *ListsHandler {
	return &ListsHandler{svc: svc, logger: logger}
}

// Handle processes the /lists command.
func (h *ListsHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	filter := strings.TrimSpace(strings.Join(args, " "))

	lists, err := h.svc.ListsView(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("get lists: %w", err)
	}

	if len(lists) == 0 {
		text := "📝 *No lists yet!*\n\nCreate one with `/newlist <name>`"
		if filter != "" {
			text = fmt.Sprintf("📝 No lists matching %q.", filter)
		}
		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	var sb strings.Builder
	sb.WriteString("📝 *Shopping Lists*\n\n")
	for _, list := range lists {
		mark := "⬜"
		if h.svc.IsSelected(list.ID) {
			mark = "☑️"
		}
		sb.WriteString(fmt.Sprintf("%s *#%d* %s\n", mark, list.ID, list.Name))
	}
	sb.WriteString("\n_Open a list with_ `/open <id>`\n_Mark for export with_ `/select <id>`")

	msg := tgbotapi.NewMessage(message.Chat.ID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	return nil
}

// ---------------------------------------------------------------------------
// OpenHandler – /open <id>
// ---------------------------------------------------------------------------

// OpenHandler handles the /open command, making a list the current context so
// item commands apply to it.
type OpenHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewOpenHandler creates a new OpenHandler.
func NewOpenHandler(svc *service.Service, logger *logrus.Logger) *OpenHandler {
	return &OpenHandler{svc: svc, logger: logger}
}

// Handle processes the /open command.
func (h *OpenHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Please provide a list ID.\nUsage: `/open 3`")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Invalid ID. Please provide a numeric list ID.")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	ctx := context.Background()

	view, err := h.svc.OpenList(ctx, id)
	if err != nil {
		return fmt.Errorf("open list: %w", err)
	}

	name, err := h.svc.Lists.GetName(ctx, id)
	if err != nil {
		return fmt.Errorf("get list name: %w", err)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, renderItemsView(name, view))
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"list_id": id,
	}).Info("List opened")

	return nil
}

// ---------------------------------------------------------------------------
// HomeHandler – /home
// ---------------------------------------------------------------------------

// HomeHandler handles the /home command, leaving the open list.
type HomeHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(svc *service.Service, logger *logrus.Logger) *HomeHandler {
	return &HomeHandler{svc: svc, logger: logger}
}

// Handle processes the /home command.
func (h *HomeHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	h.svc.GoHome()

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"🏠 Back at the list overview. Use `/lists` to see your lists.")
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	return nil
}

// renderItemsView formats a list with its items and the purchased total the
// way every item command reports back.
func renderItemsView(name string, view *service.ItemsView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s*\n\n", name))

	if len(view.Items) == 0 {
		sb.WriteString("_No items yet. Add one with_ `/additem <name> <qty> <price>`\n")
		return sb.String()
	}

	for _, item := range view.Items {
		if item.Purchased {
			sb.WriteString(fmt.Sprintf("✅ ~%s~ — %.1f × R$%.2f = R$%.2f\n",
				item.Name, item.Quantity, item.UnitPrice, item.Subtotal()))
		} else {
			sb.WriteString(fmt.Sprintf("⬜ *#%d* %s — %.1f × R$%.2f\n",
				item.ID, item.Name, item.Quantity, item.UnitPrice))
		}
	}

	sb.WriteString(fmt.Sprintf("\n💰 *Purchased total: R$%.2f*", view.PurchasedTotal))
	return sb.String()
}
