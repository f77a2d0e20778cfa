package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/config"
	"github.com/lojasocial-ipb/api/internal/conta"
	"github.com/lojasocial-ipb/api/internal/db"
	"github.com/lojasocial-ipb/api/internal/notificacao"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("worker encerrado com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	contaService := conta.NewService(conta.NewRepository(pool))
	mailer := notificacao.NewSMTPMailer(cfg.SMTP)
	logger := log.With().Str("component", "worker").Logger()

	dispatcher := notificacao.NewDispatcher(
		notificacao.NewRepository(pool),
		mailer,
		nil,
		contaService,
		cfg.Worker,
		logger,
	)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	log.Info().Msg("worker de notificações iniciado")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("encerrando...")

	return nil
}
