package entrega

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/enums"
)

// Estado do ciclo de vida de uma entrega.
type Estado string

const (
	EstadoAgendada  Estado = "AGENDADA"
	EstadoEntregue  Estado = "ENTREGUE"
	EstadoCancelada Estado = "CANCELADA"
	EstadoRejeitada Estado = "REJEITADA"
	EstadoEmAnalise Estado = "EM_ANALISE"
)

// Estados coage valores desconhecidos para EM_ANALISE: um registro ilegível
// volta para a fila de revisão da equipe em vez de sumir da listagem.
var Estados = enums.Mapping[Estado]{
	Default: EstadoEmAnalise,
	Values:  []Estado{EstadoAgendada, EstadoEntregue, EstadoCancelada, EstadoRejeitada, EstadoEmAnalise},
}

// Entrega é a cessão agendada ou concretizada de itens a um beneficiário.
type Entrega struct {
	ID             uuid.UUID      `json:"id"`
	BeneficiarioID uuid.UUID      `json:"beneficiario_id"`
	Data           *time.Time     `json:"data,omitempty"`
	DataPrevista   time.Time      `json:"data_prevista"`
	Estado         Estado         `json:"estado"`
	Itens          map[string]int `json:"itens"`
	Observacoes    string         `json:"observacoes,omitempty"`
	CriadoPor      string         `json:"criado_por"`
}

// Wire é a representação da entrega no vocabulário do armazenamento.
type Wire struct {
	ID           string
	Beneficiario string
	Data         *time.Time
	DataPrevista time.Time
	Estado       string
	Itens        map[string]int
	Observacoes  string
	CriadoPor    string
}

// FromWire constrói a entidade de domínio. Id e beneficiário são campos de
// identidade: ausentes, o registro é irrecuperável e a construção falha inteira.
func FromWire(w Wire) (*Entrega, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil || w.ID == "" {
		return nil, fmt.Errorf("entrega sem id endereçável: %q", w.ID)
	}
	beneficiario, err := uuid.Parse(w.Beneficiario)
	if err != nil || w.Beneficiario == "" {
		return nil, fmt.Errorf("entrega %s sem beneficiário: %q", w.ID, w.Beneficiario)
	}

	itens := w.Itens
	if itens == nil {
		itens = map[string]int{}
	}

	return &Entrega{
		ID:             id,
		BeneficiarioID: beneficiario,
		Data:           w.Data,
		DataPrevista:   w.DataPrevista,
		Estado:         Estados.FromWire(w.Estado),
		Itens:          itens,
		Observacoes:    w.Observacoes,
		CriadoPor:      w.CriadoPor,
	}, nil
}

// ToWire converte a entidade para o vocabulário do armazenamento.
func (e *Entrega) ToWire() Wire {
	return Wire{
		ID:           e.ID.String(),
		Beneficiario: e.BeneficiarioID.String(),
		Data:         e.Data,
		DataPrevista: e.DataPrevista,
		Estado:       string(e.Estado),
		Itens:        e.Itens,
		Observacoes:  e.Observacoes,
		CriadoPor:    e.CriadoPor,
	}
}

// AddInput encapsula os campos de uma nova entrega.
type AddInput struct {
	BeneficiarioID string
	DataPrevista   time.Time
	Itens          map[string]int
	Observacoes    string
	CriadoPor      string
}
