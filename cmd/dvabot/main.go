// Command dvabot buys cryptocurrency on a fixed schedule using a
// dollar-value-averaging strategy: the cheaper the current price looks
// against its trailing average, the more it buys.
//
// Usage:
//
//	dvabot setup              (interactive configuration wizard)
//	dvabot --config config.yaml
//	dvabot (uses CLI arguments)
//
// Required environment variables:
//
//	GEMINI_API_KEY, GEMINI_API_SECRET
package main

import (
	"context"
	"log"
	"os"

	"github.com/leviob/dvabot/config"
	"github.com/leviob/dvabot/internal"
	"github.com/leviob/dvabot/internal/clients/gemini"
	"github.com/leviob/dvabot/internal/services/notifier"
	"github.com/leviob/dvabot/internal/setup"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	configs, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	apiSecret := os.Getenv("GEMINI_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		log.Fatal("GEMINI_API_KEY and GEMINI_API_SECRET environment variables must be set")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	g := new(errgroup.Group)
	for _, conf := range configs {
		client := gemini.NewClient(conf.APIBase, apiKey, apiSecret, logger)

		var notify notifier.Notifier = notifier.Nop{}
		if conf.Notify.To != "" {
			notify = notifier.NewEmail(conf.Notify.SMTPHost, conf.Notify.SMTPPort,
				conf.Notify.SMTPUser, conf.Notify.SMTPPass,
				conf.Notify.From, conf.Notify.To, logger)
		}

		bot, err := internal.NewTradingBot(conf, client, notify, logger.With(zap.String("pair", conf.Pair.String())))
		if err != nil {
			logger.Fatal("failed to create trading bot", zap.Error(err))
		}

		g.Go(func() error {
			return bot.Run(context.Background())
		})
		logger.Info("started", zap.String("pair", conf.Pair.String()))
	}

	if err := g.Wait(); err != nil {
		logger.Error(err.Error())
	}
}
