package conta

import (
	"time"

	"github.com/google/uuid"
)

// Conta é a identidade de autenticação compartilhada por colaboradores e
// beneficiários. O papel não mora aqui: é resolvido no login a partir dos
// registros de domínio que referenciam o uid.
type Conta struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	SenhaHash string    `json:"-"`
	PushToken string    `json:"-"`
	CriadoEm  time.Time `json:"criado_em"`
}

// TokenRefresh é o registro persistente de um refresh token emitido. Apenas o
// hash do token circula até aqui.
type TokenRefresh struct {
	ID         uuid.UUID
	ContaID    uuid.UUID
	TokenHash  string
	ExpiraEm   time.Time
	CriadoEm   time.Time
	RevogadoEm *time.Time
}
