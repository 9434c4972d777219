package operator

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/authenshop/paygate/lib/myerrors"
	"github.com/authenshop/paygate/lib/mylog"
	"github.com/authenshop/paygate/services/checkoutapi"
	"github.com/authenshop/paygate/services/orderledger"
)

// App listens on the operator chat for payment-link commands. It is the
// human half of the manual checkout variant: an order notification asks
// the operator to answer with
//
//	/pay <order number> <payment link>
//
// which attaches the link to the order so the waiting checkout page can
// pick it up.
type App struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	ledger orderledger.Ledger
	logger mylog.Logger
}

func New(bot *tgbotapi.BotAPI, chatID int64, ledger orderledger.Ledger) *App {
	return &App{
		bot:    bot,
		chatID: chatID,
		ledger: ledger,
		logger: mylog.New("operator"),
	}
}

// Run blocks on the telegram long-poll until the context is cancelled.
func (a *App) Run(c context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := a.bot.GetUpdatesChan(u)

	a.logger.Log(c, "", mylog.SeverityInfo, "Operator bot %s listening on chat %d", a.bot.Self.UserName, a.chatID)

	for {
		select {
		case <-c.Done():
			a.bot.StopReceivingUpdates()
			return c.Err()
		case upd := <-updates:
			if upd.Message == nil {
				continue
			}
			if upd.Message.Chat.ID != a.chatID {
				// not the operator chat
				continue
			}

			reply := a.handleCommand(c, upd.Message.Text)
			if reply == "" {
				continue
			}

			msg := tgbotapi.NewMessage(a.chatID, reply)
			_, err := a.bot.Send(msg)
			if err != nil {
				a.logger.Log(c, "", mylog.SeverityError, "Error replying on operator chat: %s", err)
			}
		}
	}
}

// handleCommand interprets a single operator message and returns the
// reply to send, or "" when the message is not addressed to us.
func (a *App) handleCommand(c context.Context, text string) string {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 || parts[0] != "/pay" {
		return ""
	}

	if len(parts) < 3 {
		return "Usage: /pay <order number> <payment link>"
	}

	orderRef := parts[1]
	link := strings.Join(parts[2:], " ")

	err := a.ledger.AttachSettlementByRef(c, orderRef, checkoutapi.Settlement{
		Paid:        true,
		RedirectURL: link,
	})
	if err != nil {
		if myerrors.IsNotFound(err) {
			return fmt.Sprintf("❌ Order %s not found", orderRef)
		}
		a.logger.Log(c, orderRef, mylog.SeverityError, "Error attaching payment link to order %s: %s", orderRef, err)
		return fmt.Sprintf("❌ Could not attach payment link to order %s", orderRef)
	}

	a.logger.Log(c, orderRef, mylog.SeverityInfo, "Payment link attached to order %s", orderRef)

	return fmt.Sprintf("✅ Payment link attached to order %s, the customer is being redirected", orderRef)
}
