package realtime

import (
	"context"
	"errors"
	"testing"
	"time"
)

func recebeSnapshot[T any](t *testing.T, out <-chan []T) []T {
	t.Helper()
	select {
	case snap, ok := <-out:
		if !ok {
			t.Fatal("fluxo fechou antes do esperado")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("timeout à espera de snapshot")
	}
	return nil
}

func esperaEncerramento(t *testing.T, done <-chan struct{}, motivo string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal(motivo)
	}
}

// Um fluxo assinado entrega o snapshot inicial de imediato e, a cada sinal,
// a coleção recarregada, sempre na ordem do loader (mais recente primeiro).
func TestStreamEntregaSnapshotsNaOrdemDoLoader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	versao := 0
	load := func(context.Context) ([]time.Time, error) {
		topo := base.Add(time.Duration(versao) * time.Hour)
		versao++
		return []time.Time{topo, topo.Add(-time.Minute), topo.Add(-2 * time.Minute)}, nil
	}

	first, err := load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	sinais := make(chan struct{})
	encerrado := make(chan struct{})
	out := stream(ctx, "canal-teste", first, sinais, load, func() { close(encerrado) })

	inicial := recebeSnapshot(t, out)
	for i := 1; i < len(inicial); i++ {
		if inicial[i].After(inicial[i-1]) {
			t.Fatalf("snapshot inicial fora de ordem: %v", inicial)
		}
	}

	sinais <- struct{}{}
	segundo := recebeSnapshot(t, out)
	if !segundo[0].After(inicial[0]) {
		t.Error("sinal de mudança deveria ter recarregado a coleção")
	}
	for i := 1; i < len(segundo); i++ {
		if segundo[i].After(segundo[i-1]) {
			t.Fatalf("snapshot recarregado fora de ordem: %v", segundo)
		}
	}

	cancel()
	esperaEncerramento(t, encerrado, "cancelar o contexto deveria desfazer a assinatura")

	select {
	case _, ok := <-out:
		if ok {
			t.Error("não deveria haver snapshot após o cancelamento")
		}
	case <-time.After(time.Second):
		t.Fatal("o fluxo deveria fechar após o cancelamento")
	}
}

// A perda da assinatura upstream (sinais fechados) encerra o fluxo e ainda
// assim roda o unsubscribe.
func TestStreamEncerraQuandoSinaisFecham(t *testing.T) {
	ctx := context.Background()
	load := func(context.Context) ([]int, error) { return []int{1}, nil }

	sinais := make(chan struct{})
	encerrado := make(chan struct{})
	out := stream(ctx, "canal-teste", []int{1}, sinais, load, func() { close(encerrado) })

	recebeSnapshot(t, out)
	close(sinais)

	esperaEncerramento(t, encerrado, "fechar os sinais deveria desfazer a assinatura")
	if _, ok := <-out; ok {
		t.Error("o fluxo deveria fechar quando os sinais fecham")
	}
}

// Falha de recarga encerra o fluxo em vez de entregar um snapshot obsoleto.
func TestStreamRecargaFalhaEncerraOFluxo(t *testing.T) {
	ctx := context.Background()
	load := func(context.Context) ([]int, error) { return nil, errors.New("indisponível") }

	sinais := make(chan struct{})
	encerrado := make(chan struct{})
	out := stream(ctx, "canal-teste", []int{1}, sinais, load, func() { close(encerrado) })

	recebeSnapshot(t, out)
	sinais <- struct{}{}

	esperaEncerramento(t, encerrado, "falha de recarga deveria desfazer a assinatura")
	if _, ok := <-out; ok {
		t.Error("o fluxo deveria fechar quando a recarga falha")
	}
}
