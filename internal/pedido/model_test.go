package pedido

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

func TestFromWireCoercaoDeEstadoETipo(t *testing.T) {
	p, err := FromWire(Wire{ID: uuid.NewString(), Beneficiario: uuid.NewString(), Estado: "???", Tipo: "???"})
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if p.Estado != EstadoAnalise {
		t.Errorf("estado deveria cair em ANALISE, veio %s", p.Estado)
	}
	if p.Tipo != TipoAlimentar {
		t.Errorf("tipo deveria cair em ALIMENTAR, veio %s", p.Tipo)
	}
}

func TestFromWireAnoLetivoIlegivelEhFatal(t *testing.T) {
	ano := "não-é-uuid"
	if _, err := FromWire(Wire{ID: uuid.NewString(), Beneficiario: uuid.NewString(), AnoLetivo: &ano}); err == nil {
		t.Error("ano letivo ilegível deveria ser fatal")
	}

	vazio := ""
	p, err := FromWire(Wire{ID: uuid.NewString(), Beneficiario: uuid.NewString(), AnoLetivo: &vazio})
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if p.AnoLetivoID != nil {
		t.Errorf("ano letivo vazio equivale a ausente, veio %v", p.AnoLetivoID)
	}
}

func TestFromWireDocumentosNulosViramVazio(t *testing.T) {
	p, err := FromWire(Wire{ID: uuid.NewString(), Beneficiario: uuid.NewString()})
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if p.Documentos == nil || len(p.Documentos) != 0 {
		t.Errorf("documentos nulos deveriam virar mapa vazio, veio %#v", p.Documentos)
	}
}

func TestWireRoundTrip(t *testing.T) {
	ano := uuid.NewString()
	comprovativo := "https://storage.local/pedidos/abc/comprovativo"
	original := Wire{
		ID:            uuid.NewString(),
		Beneficiario:  uuid.NewString(),
		AnoLetivo:     &ano,
		DataSubmissao: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		Estado:        "APROVADA",
		Tipo:          "HIGIENE",
		Documentos:    map[string]*string{"comprovativo": &comprovativo, "matricula": nil},
		Observacoes:   "agregado de três pessoas",
	}

	p, err := FromWire(original)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}

	volta := p.ToWire()
	if volta.ID != original.ID || volta.Beneficiario != original.Beneficiario ||
		volta.Estado != original.Estado || volta.Tipo != original.Tipo ||
		volta.Observacoes != original.Observacoes {
		t.Errorf("ida e volta divergiu: %+v vs %+v", original, volta)
	}
	if volta.AnoLetivo == nil || *volta.AnoLetivo != ano {
		t.Errorf("ano letivo divergiu: %v vs %s", volta.AnoLetivo, ano)
	}
	if !volta.DataSubmissao.Equal(original.DataSubmissao) {
		t.Errorf("data de submissão divergiu: %v vs %v", volta.DataSubmissao, original.DataSubmissao)
	}
	if len(volta.Documentos) != 2 {
		t.Fatalf("documentos divergiram: %v", volta.Documentos)
	}
	if url := volta.Documentos["comprovativo"]; url == nil || *url != comprovativo {
		t.Errorf("comprovativo divergiu: %v", url)
	}
	if volta.Documentos["matricula"] != nil {
		t.Error("upload falhado deveria permanecer nulo")
	}
}
