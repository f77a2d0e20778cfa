package stock

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/enums"
)

// TipoProduto classifica o catálogo.
type TipoProduto string

const (
	TipoAlimentar TipoProduto = "ALIMENTAR"
	TipoHigiene   TipoProduto = "HIGIENE"
	TipoLimpeza   TipoProduto = "LIMPEZA"
	TipoOutro     TipoProduto = "OUTRO"
)

// TiposProduto coage valores persistidos desconhecidos para OUTRO.
var TiposProduto = enums.Mapping[TipoProduto]{
	Default: TipoOutro,
	Values:  []TipoProduto{TipoAlimentar, TipoHigiene, TipoLimpeza, TipoOutro},
}

// Produto é a definição de catálogo: um produto pode ter vários lotes em stock,
// cada um com a sua validade.
type Produto struct {
	ID          uuid.UUID   `json:"id"`
	Nome        string      `json:"nome"`
	Tipo        TipoProduto `json:"tipo"`
	FotoURL     string      `json:"foto_url,omitempty"`
	Observacoes string      `json:"observacoes,omitempty"`
}

// Item é um lote físico de um produto. A quantidade nunca é observável negativa;
// a regra é imposta na fronteira de escrita, não pelo armazenamento.
type Item struct {
	ID           uuid.UUID  `json:"id"`
	ProdutoID    uuid.UUID  `json:"produto_id"`
	CampanhaID   *uuid.UUID `json:"campanha_id,omitempty"`
	Quantidade   int        `json:"quantidade"`
	DataEntrada  time.Time  `json:"data_entrada"`
	DataValidade time.Time  `json:"data_validade"`
	Observacoes  string     `json:"observacoes,omitempty"`
}

// AddProdutoInput encapsula um novo produto de catálogo.
type AddProdutoInput struct {
	Nome        string
	Tipo        string
	FotoURL     string
	Observacoes string
}

// AddItemInput encapsula um novo lote.
type AddItemInput struct {
	ProdutoID    string
	CampanhaID   *uuid.UUID
	Quantidade   int
	DataValidade time.Time
	Observacoes  string
}

// Baixa é a parcela retirada de um lote ao concretizar uma entrega.
type Baixa struct {
	ItemID     uuid.UUID
	Quantidade int
}

// PlanearBaixa distribui uma retirada pelos lotes do produto, consumindo
// primeiro os de validade mais próxima. Stock insuficiente aborta o plano
// inteiro: nenhum lote fica parcialmente reservado.
func PlanearBaixa(lotes []Item, quantidade int) ([]Baixa, error) {
	if quantidade <= 0 {
		return nil, apperr.Validation("quantidade", "deve ser positiva")
	}

	ordenados := make([]Item, len(lotes))
	copy(ordenados, lotes)
	sort.SliceStable(ordenados, func(i, j int) bool {
		return ordenados[i].DataValidade.Before(ordenados[j].DataValidade)
	})

	restante := quantidade
	var plano []Baixa
	for _, lote := range ordenados {
		if restante == 0 {
			break
		}
		if lote.Quantidade <= 0 {
			continue
		}
		take := lote.Quantidade
		if take > restante {
			take = restante
		}
		plano = append(plano, Baixa{ItemID: lote.ID, Quantidade: take})
		restante -= take
	}

	if restante > 0 {
		return nil, ErrStockInsuficiente
	}
	return plano, nil
}
