package notifier

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/services/checkoutapi"
)

type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger mylog.Logger
}

func NewTelegramNotifier(bot *tgbotapi.BotAPI, chatID int64) Notifier {
	return &telegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: mylog.New("notifier"),
	}
}

func (n *telegramNotifier) OrderPlaced(c context.Context, session checkoutapi.OrderSession) error {
	return n.send(c, formatOrderPlaced(session))
}

func (n *telegramNotifier) PaymentReceived(c context.Context, session checkoutapi.OrderSession) error {
	return n.send(c, formatPaymentReceived(session))
}

func (n *telegramNotifier) send(c context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	_, err := n.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("error sending telegram message: %s", err)
	}

	n.logger.Log(c, "", mylog.SeverityInfo, "Operator notified")

	return nil
}

func formatPaymentReceived(session checkoutapi.OrderSession) string {
	buf := strings.Builder{}

	buf.WriteString(fmt.Sprintf("<b>✅ PAYMENT RECEIVED - %s</b>\n\n", strings.ToUpper(session.Provider)))
	buf.WriteString(fmt.Sprintf("<b>💰 Amount:</b> %s\n", session.Amount))
	buf.WriteString(formatCustomer(session.Customer))
	buf.WriteString(fmt.Sprintf("<b>🆔 Checkout ID:</b> %s", session.SessionID))
	buf.WriteString(formatCart(session))
	buf.WriteString("\n\n<b>✓ Status:</b> Paid")

	return buf.String()
}

func formatOrderPlaced(session checkoutapi.OrderSession) string {
	buf := strings.Builder{}

	buf.WriteString("<b>🛒 NEW ORDER - AWAITING PAYMENT LINK</b>\n\n")
	buf.WriteString(fmt.Sprintf("<b>💰 Amount:</b> %s\n", session.Amount))
	buf.WriteString(formatCustomer(session.Customer))
	buf.WriteString(fmt.Sprintf("<b>🆔 Order ID:</b> %s", session.OrderRef))
	buf.WriteString(formatCart(session))
	buf.WriteString("\n\n<b>⚠️ SEND PAYMENT LINK:</b>\n")
	buf.WriteString(fmt.Sprintf("/pay %s YOUR_PAYMENT_LINK\n", session.OrderRef))
	buf.WriteString("\n<i>⏳ Customer is waiting...</i>")

	return buf.String()
}

// formatCustomer renders the contact block, or nothing when the session
// was created without a customer snapshot.
func formatCustomer(customer checkoutapi.Customer) string {
	if customer.IsEmpty() {
		return ""
	}

	buf := strings.Builder{}
	buf.WriteString(fmt.Sprintf("<b>👤 Customer:</b> %s\n", customer.FullName()))
	buf.WriteString(fmt.Sprintf("<b>📧 Email:</b> %s\n", customer.Email))
	buf.WriteString(fmt.Sprintf("<b>📍 Address:</b> %s, %s %s\n", customer.Address, customer.PostalCode, customer.City))

	return buf.String()
}

func formatCart(session checkoutapi.OrderSession) string {
	if len(session.Cart) == 0 {
		return ""
	}

	buf := strings.Builder{}
	buf.WriteString("\n\n<b>🛒 Products:</b>\n")
	for _, item := range session.Cart {
		buf.WriteString(fmt.Sprintf("• %dx %s - %.2f\n", item.Quantity, item.Title, float64(item.Total())/100.0))
	}

	return strings.TrimSuffix(buf.String(), "\n")
}
