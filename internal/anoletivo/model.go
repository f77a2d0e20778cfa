package anoletivo

import (
	"time"

	"github.com/google/uuid"
)

// Canal do pub/sub que sinaliza mudanças na coleção.
const Canal = "lojasocial:anos-letivos"

// AnoLetivo representa um ano acadêmico ao qual beneficiários e pedidos se vinculam.
type AnoLetivo struct {
	ID     uuid.UUID `json:"id"`
	Nome   string    `json:"nome"`
	Inicio time.Time `json:"inicio"`
	Fim    time.Time `json:"fim"`
}

// CreateInput encapsula os campos de um novo ano letivo.
type CreateInput struct {
	Nome   string
	Inicio time.Time
	Fim    time.Time
}
