package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/authenshop/paygate/config"
	"github.com/authenshop/paygate/lib/mytime"
	"github.com/authenshop/paygate/lib/myuuid"
	"github.com/authenshop/paygate/services/checkoutmanual"
	"github.com/authenshop/paygate/services/checkoutmollie"
	"github.com/authenshop/paygate/services/checkoutsumup"
	"github.com/authenshop/paygate/services/notifier"
	"github.com/authenshop/paygate/services/operator"
	"github.com/authenshop/paygate/services/orderledger"
)

func main() {
	c := context.Background()

	// local development convenience, the file is optional
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Error reading configuration: %s", err)
	}

	router := mux.NewRouter()
	ledger := orderledger.New()
	nower := mytime.RealNower{}

	notify := notifier.NewNopNotifier()
	var bot *tgbotapi.BotAPI
	if cfg.TelegramEnabled() {
		bot, err = tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Fatalf("Error connecting to telegram: %s", err)
		}
		notify = notifier.NewTelegramNotifier(bot, cfg.TelegramChatID)
	}

	if cfg.SumUpEnabled() {
		payer := checkoutsumup.NewPayer(cfg.SumUpAPIKey)
		sumupService, err := checkoutsumup.NewWebService(cfg.SumUpPayToEmail, payer, ledger, notify, nower)
		if err != nil {
			log.Fatalf("Error creating sumup checkout service: %s", err)
		}
		sumupService.RegisterEndpoints(c, router)
		log.Printf("Mounted sumup checkout")
	}

	if cfg.MollieEnabled() {
		payer, err := checkoutmollie.NewPayer()
		if err != nil {
			log.Fatalf("Error creating mollie client: %s", err)
		}
		mollieService, err := checkoutmollie.NewWebService(cfg.MollieAPIKey, payer, ledger, notify, nower, myuuid.RealUUIDer{})
		if err != nil {
			log.Fatalf("Error creating mollie checkout service: %s", err)
		}
		mollieService.RegisterEndpoints(c, router)
		log.Printf("Mounted mollie checkout")
	}

	manualService, err := checkoutmanual.NewWebService(ledger, notify, checkoutmanual.RandomNumberer{}, nower)
	if err != nil {
		log.Fatalf("Error creating manual checkout service: %s", err)
	}
	manualService.RegisterEndpoints(c, router)
	log.Printf("Mounted manual checkout")

	if bot != nil {
		operatorApp := operator.New(bot, cfg.TelegramChatID, ledger)
		go func() {
			err := operatorApp.Run(c)
			if err != nil {
				log.Printf("Operator bot stopped: %s", err)
			}
		}()
	}

	registerHealthEndpoints(router)

	startWebServerBlocking(cfg.Port, router)
}

func registerHealthEndpoints(router *mux.Router) {
	healthy := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok"}`)
	}
	router.HandleFunc("/", healthy).Methods("GET")
	router.HandleFunc("/health", healthy).Methods("GET")
}

func startWebServerBlocking(port string, router *mux.Router) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
