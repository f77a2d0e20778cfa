package colaborador

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/enums"
)

// Canal de pub/sub que sinaliza mudanças na equipe.
const Canal = "lojasocial:colaboradores"

// Permissao define o nível de acesso do colaborador no backoffice.
type Permissao string

const (
	PermissaoAdmin  Permissao = "ADMIN"
	PermissaoGestor Permissao = "GESTOR"
	PermissaoAcesso Permissao = "ACESSO"
)

// Permissoes coage valores desconhecidos para ACESSO, o nível mais restrito.
var Permissoes = enums.Mapping[Permissao]{
	Default: PermissaoAcesso,
	Values:  []Permissao{PermissaoAdmin, PermissaoGestor, PermissaoAcesso},
}

// Colaborador é um membro da equipe da loja. UID referencia a conta de
// autenticação do colaborador.
type Colaborador struct {
	UID       uuid.UUID `json:"uid"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	Cargo     string    `json:"cargo,omitempty"`
	Permissao Permissao `json:"permissao"`
	Ativo     bool      `json:"ativo"`
	CriadoEm  time.Time `json:"criado_em"`
}

// Wire é a representação do colaborador no vocabulário do armazenamento.
type Wire struct {
	UID       string
	Nome      string
	Email     string
	Cargo     string
	Permissao string
	Ativo     bool
	CriadoEm  time.Time
}

// FromWire constrói a entidade de domínio. UID ausente ou ilegível é fatal;
// permissão sofre coerção segura.
func FromWire(w Wire) (*Colaborador, error) {
	uid, err := uuid.Parse(w.UID)
	if err != nil || w.UID == "" {
		return nil, fmt.Errorf("colaborador sem uid endereçável: %q", w.UID)
	}

	return &Colaborador{
		UID:       uid,
		Nome:      w.Nome,
		Email:     w.Email,
		Cargo:     w.Cargo,
		Permissao: Permissoes.FromWire(w.Permissao),
		Ativo:     w.Ativo,
		CriadoEm:  w.CriadoEm,
	}, nil
}

// ToWire converte a entidade para o vocabulário do armazenamento.
func (c *Colaborador) ToWire() Wire {
	return Wire{
		UID:       c.UID.String(),
		Nome:      c.Nome,
		Email:     c.Email,
		Cargo:     c.Cargo,
		Permissao: string(c.Permissao),
		Ativo:     c.Ativo,
		CriadoEm:  c.CriadoEm,
	}
}

// AddInput encapsula a criação combinada de conta e registro de colaborador.
type AddInput struct {
	Nome      string
	Email     string
	Password  string
	Cargo     string
	Permissao string
}
