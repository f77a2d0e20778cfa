package pedido

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/enums"
)

// Estado de um pedido de apoio. Transições são sempre decididas pela equipe;
// o beneficiário nunca muda o próprio estado.
type Estado string

const (
	EstadoAnalise        Estado = "ANALISE"
	EstadoAprovada       Estado = "APROVADA"
	EstadoRejeitada      Estado = "REJEITADA"
	EstadoPendente       Estado = "PENDENTE"
	EstadoDocsIncorretos Estado = "DOCS_INCORRETOS"
)

// Estados coage valores desconhecidos para ANALISE.
var Estados = enums.Mapping[Estado]{
	Default: EstadoAnalise,
	Values:  []Estado{EstadoAnalise, EstadoAprovada, EstadoRejeitada, EstadoPendente, EstadoDocsIncorretos},
}

// Tipo da categoria de apoio solicitada.
type Tipo string

const (
	TipoAlimentar Tipo = "ALIMENTAR"
	TipoHigiene   Tipo = "HIGIENE"
	TipoLimpeza   Tipo = "LIMPEZA"
	TipoTodos     Tipo = "TODOS"
)

// Tipos coage valores desconhecidos para ALIMENTAR.
var Tipos = enums.Mapping[Tipo]{
	Default: TipoAlimentar,
	Values:  []Tipo{TipoAlimentar, TipoHigiene, TipoLimpeza, TipoTodos},
}

// Pedido é a candidatura de um beneficiário a uma categoria de apoio.
// Documentos mapeia o tipo de documento para a URL no storage; uma entrada nula
// indica upload que falhou durante o registro.
type Pedido struct {
	ID             uuid.UUID          `json:"id"`
	BeneficiarioID uuid.UUID          `json:"beneficiario_id"`
	AnoLetivoID    *uuid.UUID         `json:"ano_letivo_id,omitempty"`
	DataSubmissao  time.Time          `json:"data_submissao"`
	Estado         Estado             `json:"estado"`
	Tipo           Tipo               `json:"tipo"`
	Documentos     map[string]*string `json:"documentos"`
	Observacoes    string             `json:"observacoes,omitempty"`
}

// Detalhe acrescenta ao pedido o nome do beneficiário, para listagens da equipe.
type Detalhe struct {
	Pedido
	BeneficiarioNome string `json:"beneficiario_nome"`
}

// Wire é a representação do pedido no vocabulário do armazenamento.
type Wire struct {
	ID            string
	Beneficiario  string
	AnoLetivo     *string
	DataSubmissao time.Time
	Estado        string
	Tipo          string
	Documentos    map[string]*string
	Observacoes   string
}

// FromWire constrói a entidade de domínio. Id e beneficiário são fatais quando
// ausentes; estado e tipo sofrem coerção segura com defaults próprios.
func FromWire(w Wire) (*Pedido, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil || w.ID == "" {
		return nil, fmt.Errorf("pedido sem id endereçável: %q", w.ID)
	}
	beneficiario, err := uuid.Parse(w.Beneficiario)
	if err != nil || w.Beneficiario == "" {
		return nil, fmt.Errorf("pedido %s sem beneficiário: %q", w.ID, w.Beneficiario)
	}

	var anoLetivo *uuid.UUID
	if w.AnoLetivo != nil && *w.AnoLetivo != "" {
		parsed, err := uuid.Parse(*w.AnoLetivo)
		if err != nil {
			return nil, fmt.Errorf("ano letivo inválido em %s: %q", w.ID, *w.AnoLetivo)
		}
		anoLetivo = &parsed
	}

	docs := w.Documentos
	if docs == nil {
		docs = map[string]*string{}
	}

	return &Pedido{
		ID:             id,
		BeneficiarioID: beneficiario,
		AnoLetivoID:    anoLetivo,
		DataSubmissao:  w.DataSubmissao,
		Estado:         Estados.FromWire(w.Estado),
		Tipo:           Tipos.FromWire(w.Tipo),
		Documentos:     docs,
		Observacoes:    w.Observacoes,
	}, nil
}

// ToWire converte a entidade para o vocabulário do armazenamento.
func (p *Pedido) ToWire() Wire {
	var anoLetivo *string
	if p.AnoLetivoID != nil {
		s := p.AnoLetivoID.String()
		anoLetivo = &s
	}

	return Wire{
		ID:            p.ID.String(),
		Beneficiario:  p.BeneficiarioID.String(),
		AnoLetivo:     anoLetivo,
		DataSubmissao: p.DataSubmissao,
		Estado:        string(p.Estado),
		Tipo:          string(p.Tipo),
		Documentos:    p.Documentos,
		Observacoes:   p.Observacoes,
	}
}

// SubmeterInput encapsula uma nova candidatura.
type SubmeterInput struct {
	BeneficiarioID string
	AnoLetivoID    *uuid.UUID
	Tipo           string
	Documentos     map[string]*string
	Observacoes    string
}
