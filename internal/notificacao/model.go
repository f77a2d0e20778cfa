package notificacao

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/enums"
)

// Canal de pub/sub que sinaliza mudanças na fila de notificações.
const Canal = "lojasocial:notificacoes"

// Estado do ciclo de vida de uma notificação na fila de envio.
type Estado string

const (
	EstadoPendente                Estado = "PENDENTE"
	EstadoEnviada                 Estado = "ENVIADA"
	EstadoErro                    Estado = "ERRO"
	EstadoUtilizadorNaoEncontrado Estado = "UTILIZADOR_NAO_ENCONTRADO"
	EstadoSemToken                Estado = "SEM_TOKEN"
)

// Estados coage valores desconhecidos para PENDENTE, o que apenas reencaminha a
// notificação para o despachante.
var Estados = enums.Mapping[Estado]{
	Default: EstadoPendente,
	Values:  []Estado{EstadoPendente, EstadoEnviada, EstadoErro, EstadoUtilizadorNaoEncontrado, EstadoSemToken},
}

// Tipo do canal de entrega.
type Tipo string

const (
	TipoEmail Tipo = "EMAIL"
	TipoPush  Tipo = "PUSH"
)

// Tipos coage valores desconhecidos para EMAIL.
var Tipos = enums.Mapping[Tipo]{
	Default: TipoEmail,
	Values:  []Tipo{TipoEmail, TipoPush},
}

// Notificacao é uma mensagem enfileirada para entrega assíncrona ao
// beneficiário ou colaborador identificado pelo destinatário.
type Notificacao struct {
	ID           uuid.UUID  `json:"id"`
	Destinatario string     `json:"destinatario"`
	Titulo       string     `json:"titulo"`
	Mensagem     string     `json:"mensagem"`
	Tipo         Tipo       `json:"tipo"`
	Token        string     `json:"token,omitempty"`
	Estado       Estado     `json:"estado"`
	CriadoEm     time.Time  `json:"criado_em"`
	EnviadoEm    *time.Time `json:"enviado_em,omitempty"`
}

// Wire é a representação da notificação no vocabulário do armazenamento.
type Wire struct {
	ID           string
	Destinatario string
	Titulo       string
	Mensagem     string
	Tipo         string
	Token        string
	Estado       string
	CriadoEm     time.Time
	EnviadoEm    *time.Time
}

// FromWire constrói a entidade de domínio. Id ausente ou ilegível é fatal;
// tipo e estado sofrem coerção segura.
func FromWire(w Wire) (*Notificacao, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil || w.ID == "" {
		return nil, fmt.Errorf("notificação sem id endereçável: %q", w.ID)
	}

	return &Notificacao{
		ID:           id,
		Destinatario: w.Destinatario,
		Titulo:       w.Titulo,
		Mensagem:     w.Mensagem,
		Tipo:         Tipos.FromWire(w.Tipo),
		Token:        w.Token,
		Estado:       Estados.FromWire(w.Estado),
		CriadoEm:     w.CriadoEm,
		EnviadoEm:    w.EnviadoEm,
	}, nil
}

// ToWire converte a entidade para o vocabulário do armazenamento.
func (n *Notificacao) ToWire() Wire {
	return Wire{
		ID:           n.ID.String(),
		Destinatario: n.Destinatario,
		Titulo:       n.Titulo,
		Mensagem:     n.Mensagem,
		Tipo:         string(n.Tipo),
		Token:        n.Token,
		Estado:       string(n.Estado),
		CriadoEm:     n.CriadoEm,
		EnviadoEm:    n.EnviadoEm,
	}
}
