package auditoria

import (
	"time"

	"github.com/google/uuid"
)

// AtorSistema é registrado quando nenhuma sessão identifica o autor da ação.
const AtorSistema = "Sistema"

// Canal do pub/sub que sinaliza novas entradas aos assinantes.
const Canal = "lojasocial:logs"

// AppLog é uma entrada imutável do registro de auditoria. Nunca é alterada nem
// removida; a leitura é sempre ordenada por timestamp decrescente.
type AppLog struct {
	ID         uuid.UUID `json:"id"`
	Acao       string    `json:"acao"`
	Detalhe    string    `json:"detalhe"`
	Utilizador string    `json:"utilizador"`
	Timestamp  time.Time `json:"timestamp"`
}

// RegistarInput encapsula os campos de uma nova entrada.
type RegistarInput struct {
	Acao       string
	Detalhe    string
	Utilizador string
	Timestamp  time.Time
}
