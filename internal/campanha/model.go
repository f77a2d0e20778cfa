package campanha

import (
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/enums"
)

// Tipo distingue campanhas internas (da própria loja) de externas (parceiros).
type Tipo string

const (
	TipoInterna Tipo = "INTERNA"
	TipoExterna Tipo = "EXTERNA"
)

// Tipos coage valores desconhecidos para EXTERNA.
var Tipos = enums.Mapping[Tipo]{
	Default: TipoExterna,
	Values:  []Tipo{TipoInterna, TipoExterna},
}

// Estado do ciclo de vida de uma campanha.
type Estado string

const (
	EstadoPlaneada Estado = "PLANEADA"
	EstadoAtiva    Estado = "ATIVA"
	EstadoInativa  Estado = "INATIVA"
)

// Estados coage valores desconhecidos para INATIVA.
var Estados = enums.Mapping[Estado]{
	Default: EstadoInativa,
	Values:  []Estado{EstadoPlaneada, EstadoAtiva, EstadoInativa},
}

// ordem impõe a progressão monotônica PLANEADA → ATIVA → INATIVA.
var ordem = map[Estado]int{
	EstadoPlaneada: 0,
	EstadoAtiva:    1,
	EstadoInativa:  2,
}

// PodeTransitar indica se a transição respeita a progressão do ciclo de vida.
func PodeTransitar(de, para Estado) bool {
	return ordem[para] > ordem[de]
}

// Campanha é uma iniciativa de coleta de doações com janela temporal.
type Campanha struct {
	ID                  uuid.UUID   `json:"id"`
	Titulo              string      `json:"titulo"`
	Descricao           string      `json:"descricao"`
	Inicio              time.Time   `json:"inicio"`
	Fim                 time.Time   `json:"fim"`
	Tipo                Tipo        `json:"tipo"`
	Estado              Estado      `json:"estado"`
	ImagemURL           string      `json:"imagem_url,omitempty"`
	ProdutosNecessarios []uuid.UUID `json:"produtos_necessarios,omitempty"`
}

// AddInput encapsula os campos de uma nova campanha.
type AddInput struct {
	Titulo              string
	Descricao           string
	Inicio              time.Time
	Fim                 time.Time
	Tipo                string
	Estado              string
	ImagemURL           string
	ProdutosNecessarios []uuid.UUID
}
