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
// AddItemHandler – /additem <name> <qty> <price>
// ---------------------------------------------------------------------------

// AddItemHandler handles the /additem command. It requires an open list and
// validates quantity and price before dispatching to the service; the storage
// layer itself does not re-validate.
type AddItemHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAddItemHandler creates a new AddItemHandler.
func NewAddItemHandler(svc *service.Service, logger *logrus.Logger) *AddItemHandler {
	return &AddItemHandler{svc: svc, logger: logger}
}

// Handle processes the /additem command.
func (h *AddItemHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	listID := h.svc.OpenListID()
	if listID == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ No list is open. Open one first with `/open <id>`.")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	if len(args) < 3 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Please provide name, quantity and price.\n\n"+
				"*Usage:*\n"+
				"`/additem Milk 2 3.50`\n"+
				"`/additem Whole wheat bread 1 5.00`")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	// The last two arguments are quantity and price, everything before is
	// the item name.
	name := strings.Join(args[:len(args)-2], " ")
	quantity, qtyErr := strconv.ParseFloat(args[len(args)-2], 64)
	unitPrice, priceErr := strconv.ParseFloat(args[len(args)-1], 64)

	if qtyErr != nil || priceErr != nil || quantity <= 0 || unitPrice <= 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Quantity and price must be positive numbers.\nExample: `/additem Milk 2 3.50`")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	ctx := context.Background()

	view, err := h.svc.AddItem(ctx, listID, name, quantity, unitPrice)
	if err != nil {
		return fmt.Errorf("add item: %w", err)
	}

	listName, err := h.svc.Lists.GetName(ctx, listID)
	if err != nil {
		return fmt.Errorf("get list name: %w", err)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, renderItemsView(listName, view))
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"list_id": listID,
	}).Info("Item added via bot")

	return nil
}

// ---------------------------------------------------------------------------
// BoughtHandler – /bought <id> [off]
// ---------------------------------------------------------------------------

// BoughtHandler handles the /bought command to mark an item as purchased, or
// to unmark it when "off" is appended.
type BoughtHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewBoughtHandler creates a new BoughtHandler.
func NewBoughtHandler(svc *service.Service, logger *logrus.Logger) *BoughtHandler {
	return &BoughtHandler{svc: svc, logger: logger}
}

// Handle processes the /bought command.
func (h *BoughtHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Please provide an item ID.\nUsage: `/bought 3` or `/bought 3 off`")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ Invalid ID. Please provide a numeric item ID.")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	purchased := !(len(args) > 1 && args[1] == "off")

	view, err := h.svc.ToggleItem(context.Background(), itemID, purchased)
	if err != nil {
		return fmt.Errorf("toggle item: %w", err)
	}

	text := fmt.Sprintf("✅ Item *#%d* marked as purchased!", itemID)
	if !purchased {
		text = fmt.Sprintf("⬜ Item *#%d* unmarked.", itemID)
	}
	if view != nil {
		text += fmt.Sprintf("\n💰 Purchased total: R$%.2f", view.PurchasedTotal)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	h.logger.WithFields(logrus.Fields{
		"chat_id":   message.Chat.ID,
		"item_id":   itemID,
		"purchased": purchased,
	}).Info("Item toggled")

	return nil
}

// ---------------------------------------------------------------------------
// TotalHandler – /total
// ---------------------------------------------------------------------------

// TotalHandler handles the /total command, reporting the purchased total of
// the open list.
type TotalHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewTotalHandler creates a new TotalHandler.
func NewTotalHandler(svc *service.Service, logger *logrus.Logger) *TotalHandler {
	return &TotalHandler{svc: svc, logger: logger}
}

// Handle processes the /total command.
func (h *TotalHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	listID := h.svc.OpenListID()
	if listID == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ No list is open. Open one first with `/open <id>`.")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	ctx := context.Background()

	view, err := h.svc.ItemsView(ctx, listID, "")
	if err != nil {
		return fmt.Errorf("get items: %w", err)
	}

	name, err := h.svc.Lists.GetName(ctx, listID)
	if err != nil {
		return fmt.Errorf("get list name: %w", err)
	}

	text := fmt.Sprintf("💰 *%s*\nPurchased total: *R$%.2f*", name, view.PurchasedTotal)
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)

	return nil
}
