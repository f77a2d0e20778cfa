package beneficiario

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/enums"
)

// Estado de um beneficiário. Registros nunca são removidos fisicamente: o
// desligamento é sempre uma transição para INATIVO.
type Estado string

const (
	EstadoAtivo   Estado = "ATIVO"
	EstadoInativo Estado = "INATIVO"
	EstadoAnalise Estado = "ANALISE"
)

// Estados é a tabela de coerção do campo estado. Valores persistidos fora do
// conjunto caem em INATIVO, nunca em nulo: uma leitura de lista não pode falhar
// por causa de um registro antigo.
var Estados = enums.Mapping[Estado]{
	Default: EstadoInativo,
	Values:  []Estado{EstadoAtivo, EstadoInativo, EstadoAnalise},
}

// Beneficiario representa uma pessoa apoiada pela loja social.
type Beneficiario struct {
	ID             uuid.UUID  `json:"id"`
	Nome           string     `json:"nome"`
	Email          string     `json:"email"`
	DataNascimento *time.Time `json:"data_nascimento,omitempty"`
	AnoLetivoID    *uuid.UUID `json:"ano_letivo_id,omitempty"`
	Telefone       string     `json:"telefone"`
	CC             string     `json:"cc"`
	Estado         Estado     `json:"estado"`
	CriadoEm       time.Time  `json:"criado_em"`
}

// Wire é a representação do beneficiário no vocabulário do armazenamento
// (campos localizados, estado como string livre). A tradução Wire↔domínio
// acontece exclusivamente aqui e é bijetiva para os campos retidos.
type Wire struct {
	ID             string
	Nome           string
	Email          string
	DataNascimento *time.Time
	AnoLetivo      *string
	Telefone       string
	CC             string
	Estado         string
	CriadoEm       time.Time
}

// FromWire constrói a entidade de domínio. A construção é tudo-ou-nada: um id
// ausente ou inválido é fatal porque o registro não pode ser endereçado. O
// estado, porém, sofre coerção segura com default INATIVO.
func FromWire(w Wire) (*Beneficiario, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil || w.ID == "" {
		return nil, fmt.Errorf("beneficiário sem id endereçável: %q", w.ID)
	}

	var anoLetivo *uuid.UUID
	if w.AnoLetivo != nil && *w.AnoLetivo != "" {
		parsed, err := uuid.Parse(*w.AnoLetivo)
		if err != nil {
			return nil, fmt.Errorf("ano letivo inválido em %s: %q", w.ID, *w.AnoLetivo)
		}
		anoLetivo = &parsed
	}

	return &Beneficiario{
		ID:             id,
		Nome:           w.Nome,
		Email:          w.Email,
		DataNascimento: w.DataNascimento,
		AnoLetivoID:    anoLetivo,
		Telefone:       w.Telefone,
		CC:             w.CC,
		Estado:         Estados.FromWire(w.Estado),
		CriadoEm:       w.CriadoEm,
	}, nil
}

// ToWire converte a entidade para o vocabulário do armazenamento.
func (b *Beneficiario) ToWire() Wire {
	var anoLetivo *string
	if b.AnoLetivoID != nil {
		s := b.AnoLetivoID.String()
		anoLetivo = &s
	}

	return Wire{
		ID:             b.ID.String(),
		Nome:           b.Nome,
		Email:          b.Email,
		DataNascimento: b.DataNascimento,
		AnoLetivo:      anoLetivo,
		Telefone:       b.Telefone,
		CC:             b.CC,
		Estado:         string(b.Estado),
		CriadoEm:       b.CriadoEm,
	}
}

// AddInput encapsula os campos de um novo beneficiário. IDs chegam como string
// porque a identidade é emitida fora deste módulo (conta de autenticação).
type AddInput struct {
	ID             string
	Nome           string
	Email          string
	DataNascimento *time.Time
	AnoLetivoID    *uuid.UUID
	Telefone       string
	CC             string
}

// UpdateInput permite à equipe editar os dados cadastrais.
type UpdateInput struct {
	ID             uuid.UUID
	Nome           *string
	Email          *string
	DataNascimento *time.Time
	AnoLetivoID    *uuid.UUID
	Telefone       *string
	CC             *string
}
