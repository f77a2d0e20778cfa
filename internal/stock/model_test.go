package stock

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func lote(id uuid.UUID, quantidade int, validade time.Time) Item {
	return Item{ID: id, ProdutoID: uuid.New(), Quantidade: quantidade, DataValidade: validade}
}

func TestPlanearBaixaConsomeValidadeMaisProxima(t *testing.T) {
	agora := time.Now()
	longe := lote(uuid.New(), 10, agora.Add(72*time.Hour))
	perto := lote(uuid.New(), 3, agora.Add(24*time.Hour))

	plano, err := PlanearBaixa([]Item{longe, perto}, 5)
	if err != nil {
		t.Fatalf("PlanearBaixa: %v", err)
	}

	if len(plano) != 2 {
		t.Fatalf("esperava 2 baixas, veio %d", len(plano))
	}
	if plano[0].ItemID != perto.ID || plano[0].Quantidade != 3 {
		t.Errorf("primeira baixa deveria esgotar o lote mais próximo: %+v", plano[0])
	}
	if plano[1].ItemID != longe.ID || plano[1].Quantidade != 2 {
		t.Errorf("segunda baixa deveria tirar o restante do lote mais distante: %+v", plano[1])
	}
}

func TestPlanearBaixaInsuficienteNaoReservaNada(t *testing.T) {
	agora := time.Now()
	lotes := []Item{
		lote(uuid.New(), 2, agora.Add(24*time.Hour)),
		lote(uuid.New(), 1, agora.Add(48*time.Hour)),
	}

	plano, err := PlanearBaixa(lotes, 4)
	if !errors.Is(err, ErrStockInsuficiente) {
		t.Fatalf("esperava ErrStockInsuficiente, veio %v", err)
	}
	if plano != nil {
		t.Errorf("plano deveria ser nulo em caso de insuficiência: %+v", plano)
	}
}

func TestPlanearBaixaIgnoraLotesVazios(t *testing.T) {
	agora := time.Now()
	vazio := lote(uuid.New(), 0, agora.Add(time.Hour))
	cheio := lote(uuid.New(), 5, agora.Add(48*time.Hour))

	plano, err := PlanearBaixa([]Item{vazio, cheio}, 5)
	if err != nil {
		t.Fatalf("PlanearBaixa: %v", err)
	}
	if len(plano) != 1 || plano[0].ItemID != cheio.ID {
		t.Errorf("lote vazio não deveria entrar no plano: %+v", plano)
	}
}

func TestPlanearBaixaQuantidadeNaoPositiva(t *testing.T) {
	if _, err := PlanearBaixa(nil, 0); err == nil {
		t.Error("quantidade zero deveria ser rejeitada")
	}
	if _, err := PlanearBaixa(nil, -1); err == nil {
		t.Error("quantidade negativa deveria ser rejeitada")
	}
}

func TestTiposProdutoCoercao(t *testing.T) {
	if got := TiposProduto.FromWire("HIGIENE"); got != TipoHigiene {
		t.Errorf("HIGIENE deveria mapear para si mesmo, veio %s", got)
	}
	if got := TiposProduto.FromWire("desconhecido"); got != TipoOutro {
		t.Errorf("valor desconhecido deveria cair em OUTRO, veio %s", got)
	}
}
