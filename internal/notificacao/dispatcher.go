package notificacao

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/config"
	"github.com/lojasocial-ipb/api/internal/util"
)

// Mailer envia emails já compostos.
type Mailer interface {
	Send(ctx context.Context, destinatario, titulo, corpo string) error
}

// Pusher entrega notificações push a um token de dispositivo.
type Pusher interface {
	Push(ctx context.Context, token, titulo, corpo string) error
}

// TokenResolver localiza o token de push do utilizador pelo email.
// Devolve apperr.ErrNotFound quando o utilizador não existe e string vazia
// quando existe mas nunca registrou dispositivo.
type TokenResolver interface {
	TokenPorEmail(ctx context.Context, email string) (string, error)
}

// SMTPMailer envia emails via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer cria o mailer a partir da configuração SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send compõe e envia a mensagem. gomail não aceita contexto; o timeout fica a
// cargo do dialer.
func (m *SMTPMailer) Send(_ context.Context, destinatario, titulo, corpo string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", destinatario)
	msg.SetHeader("Subject", titulo)
	msg.SetBody("text/plain", corpo)
	return m.dialer.DialAndSend(msg)
}

// Dispatcher drena a fila de notificações em intervalos regulares.
type Dispatcher struct {
	repo     *Repository
	mailer   Mailer
	pusher   Pusher
	resolver TokenResolver
	cfg      config.WorkerConfig
	logger   zerolog.Logger

	once   sync.Once
	cancel context.CancelFunc
}

// NewDispatcher cria o despachante. pusher e resolver podem ser nil; nesse caso
// notificações push terminam em ERRO.
func NewDispatcher(repo *Repository, mailer Mailer, pusher Pusher, resolver TokenResolver, cfg config.WorkerConfig, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, mailer: mailer, pusher: pusher, resolver: resolver, cfg: cfg, logger: logger}
}

// Start inicia o loop periódico. Safe para chamar múltiplas vezes.
func (d *Dispatcher) Start(parent context.Context) {
	d.once.Do(func() {
		ctx, cancel := context.WithCancel(parent)
		d.cancel = cancel
		go d.runLoop(ctx)
	})
}

// Stop encerra o loop periódico.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
}

func (d *Dispatcher) runLoop(ctx context.Context) {
	interval := d.cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.logger.Info().Dur("interval", interval).Msg("notificacao: despachante iniciado")

	if err := d.RunOnce(ctx); err != nil {
		d.logger.Error().Err(err).Msg("notificacao: primeira execução falhou")
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("notificacao: despachante encerrado")
			return
		case <-ticker.C:
			if err := d.RunOnce(ctx); err != nil {
				d.logger.Error().Err(err).Msg("notificacao: execução periódica falhou")
			}
		}
	}
}

// RunOnce processa um lote de notificações pendentes. Cada notificação tem o
// seu desfecho gravado individualmente; uma falha nunca bloqueia o lote.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	batch := d.cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}

	pendentes, err := d.repo.ListPendentes(ctx, batch)
	if err != nil {
		return fmt.Errorf("listar pendentes: %w", err)
	}

	for _, n := range pendentes {
		estado, enviadoEm := d.despachar(ctx, n)
		if err := d.repo.UpdateEstado(ctx, n.ID, estado, enviadoEm); err != nil {
			d.logger.Error().Err(err).Str("notificacao", n.ID.String()).Msg("notificacao: falha ao gravar desfecho")
		}
	}

	return nil
}

func (d *Dispatcher) despachar(ctx context.Context, n Notificacao) (Estado, *time.Time) {
	switch n.Tipo {
	case TipoPush:
		return d.despacharPush(ctx, n)
	default:
		return d.despacharEmail(ctx, n)
	}
}

func (d *Dispatcher) despacharEmail(ctx context.Context, n Notificacao) (Estado, *time.Time) {
	if err := d.mailer.Send(ctx, n.Destinatario, n.Titulo, n.Mensagem); err != nil {
		d.logger.Warn().Err(err).Str("notificacao", n.ID.String()).Msg("notificacao: envio de email falhou")
		return EstadoErro, nil
	}
	agora := util.Now()
	return EstadoEnviada, &agora
}

func (d *Dispatcher) despacharPush(ctx context.Context, n Notificacao) (Estado, *time.Time) {
	if d.pusher == nil || d.resolver == nil {
		return EstadoErro, nil
	}

	token := n.Token
	if token == "" {
		resolved, err := d.resolver.TokenPorEmail(ctx, n.Destinatario)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return EstadoUtilizadorNaoEncontrado, nil
		case err != nil:
			d.logger.Warn().Err(err).Str("notificacao", n.ID.String()).Msg("notificacao: resolução de token falhou")
			return EstadoErro, nil
		}
		token = resolved
	}

	if token == "" {
		return EstadoSemToken, nil
	}

	if err := d.pusher.Push(ctx, token, n.Titulo, n.Mensagem); err != nil {
		d.logger.Warn().Err(err).Str("notificacao", n.ID.String()).Msg("notificacao: envio push falhou")
		return EstadoErro, nil
	}
	agora := util.Now()
	return EstadoEnviada, &agora
}
