// Package realtime implementa as leituras reativas de snapshot: um assinante
// recebe a lista completa atual e novas listas a cada mutação sinalizada via
// Redis pub/sub, até cancelar o contexto. O unsubscribe é garantido.
package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Publish sinaliza aos assinantes do canal que a coleção mudou.
// Falha de publicação não pode derrubar a escrita primária: apenas loga.
func Publish(ctx context.Context, rdb *redis.Client, channel string) {
	if err := rdb.Publish(ctx, channel, "changed").Err(); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("realtime: publish falhou")
	}
}

// Snapshots abre um fluxo de snapshots completos da coleção. O primeiro item é
// emitido imediatamente; os seguintes, a cada sinal de mudança. O fluxo fecha
// quando ctx é cancelado ou quando uma recarga falha (erro propagado por fora
// via fechamento do canal — o consumidor retoma assinando de novo).
func Snapshots[T any](ctx context.Context, rdb *redis.Client, channel string, load func(context.Context) ([]T, error)) (<-chan []T, error) {
	first, err := load(ctx)
	if err != nil {
		return nil, err
	}

	sub := rdb.Subscribe(ctx, channel)
	// Confirma a assinatura antes de prometer atualizações.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	// Sinais coalescem: uma recarga pendente já cobre todas as publicações
	// chegadas enquanto ela não roda.
	sinais := make(chan struct{}, 1)
	go func() {
		defer close(sinais)
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case sinais <- struct{}{}:
				default:
				}
			}
		}
	}()

	unsubscribe := func() {
		if err := sub.Close(); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("realtime: unsubscribe falhou")
		}
	}
	return stream(ctx, channel, first, sinais, load, unsubscribe), nil
}

// stream é o laço do fluxo, isolado da assinatura Redis: consome sinais de
// mudança, recarrega a coleção e entrega cada snapshot ao consumidor. O
// unsubscribe roda sempre na saída, qualquer que seja o motivo do encerramento.
func stream[T any](ctx context.Context, channel string, first []T, sinais <-chan struct{}, load func(context.Context) ([]T, error), unsubscribe func()) <-chan []T {
	out := make(chan []T, 1)
	out <- first

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sinais:
				if !ok {
					return
				}
				snapshot, err := load(ctx)
				if err != nil {
					log.Error().Err(err).Str("channel", channel).Msg("realtime: recarga falhou, fluxo encerrado")
					return
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
