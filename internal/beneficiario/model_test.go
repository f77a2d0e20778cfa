package beneficiario

import (
	"testing"

	"github.com/google/uuid"
)

func TestFromWireSemIDFalha(t *testing.T) {
	for _, id := range []string{"", "não-é-uuid"} {
		if _, err := FromWire(Wire{ID: id, Nome: "Maria"}); err == nil {
			t.Errorf("id %q deveria ser fatal", id)
		}
	}
}

func TestFromWireEstadoDesconhecidoCaiEmInativo(t *testing.T) {
	b, err := FromWire(Wire{ID: uuid.NewString(), Nome: "Maria", Estado: "qualquer coisa"})
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if b.Estado != EstadoInativo {
		t.Errorf("estado deveria cair em INATIVO, veio %s", b.Estado)
	}
}

func TestWireRoundTrip(t *testing.T) {
	original := Wire{
		ID:       uuid.NewString(),
		Nome:     "João Silva",
		Email:    "joao@ipb.pt",
		Telefone: "912345678",
		CC:       "12345678",
		Estado:   "ATIVO",
	}

	b, err := FromWire(original)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}

	volta := b.ToWire()
	if volta.ID != original.ID || volta.Nome != original.Nome || volta.Email != original.Email ||
		volta.Telefone != original.Telefone || volta.CC != original.CC || volta.Estado != original.Estado {
		t.Errorf("ida e volta divergiu: %+v vs %+v", original, volta)
	}
}
