package entrega

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFromWireSemIdentidadeFalha(t *testing.T) {
	beneficiario := uuid.NewString()

	for _, id := range []string{"", "não-é-uuid"} {
		if _, err := FromWire(Wire{ID: id, Beneficiario: beneficiario}); err == nil {
			t.Errorf("id %q deveria ser fatal", id)
		}
	}
	for _, ben := range []string{"", "não-é-uuid"} {
		if _, err := FromWire(Wire{ID: uuid.NewString(), Beneficiario: ben}); err == nil {
			t.Errorf("beneficiário %q deveria ser fatal", ben)
		}
	}
}

func TestFromWireEstadoDesconhecidoCaiEmAnalise(t *testing.T) {
	e, err := FromWire(Wire{ID: uuid.NewString(), Beneficiario: uuid.NewString(), Estado: "qualquer coisa"})
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if e.Estado != EstadoEmAnalise {
		t.Errorf("estado deveria cair em EM_ANALISE, veio %s", e.Estado)
	}
}

func TestFromWireItensNuloViraVazio(t *testing.T) {
	e, err := FromWire(Wire{ID: uuid.NewString(), Beneficiario: uuid.NewString()})
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if e.Itens == nil || len(e.Itens) != 0 {
		t.Errorf("itens nulos deveriam virar mapa vazio, veio %#v", e.Itens)
	}
}

func TestWireRoundTrip(t *testing.T) {
	data := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	original := Wire{
		ID:           uuid.NewString(),
		Beneficiario: uuid.NewString(),
		Data:         &data,
		DataPrevista: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		Estado:       "ENTREGUE",
		Itens:        map[string]int{uuid.NewString(): 2, uuid.NewString(): 5},
		Observacoes:  "levantamento no balcão",
		CriadoPor:    "Ana",
	}

	e, err := FromWire(original)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}

	volta := e.ToWire()
	if volta.ID != original.ID || volta.Beneficiario != original.Beneficiario ||
		volta.Estado != original.Estado || volta.Observacoes != original.Observacoes ||
		volta.CriadoPor != original.CriadoPor {
		t.Errorf("ida e volta divergiu: %+v vs %+v", original, volta)
	}
	if volta.Data == nil || !volta.Data.Equal(*original.Data) {
		t.Errorf("data divergiu: %v vs %v", volta.Data, original.Data)
	}
	if !volta.DataPrevista.Equal(original.DataPrevista) {
		t.Errorf("data prevista divergiu: %v vs %v", volta.DataPrevista, original.DataPrevista)
	}
	if len(volta.Itens) != len(original.Itens) {
		t.Fatalf("itens divergiram: %v vs %v", volta.Itens, original.Itens)
	}
	for produto, qty := range original.Itens {
		if volta.Itens[produto] != qty {
			t.Errorf("item %s divergiu: %d vs %d", produto, volta.Itens[produto], qty)
		}
	}
}
