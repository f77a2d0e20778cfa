package colaborador

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

type stubColaboradorRepo struct {
	registros map[uuid.UUID]*Colaborador
}

func newStubColaboradorRepo() *stubColaboradorRepo {
	return &stubColaboradorRepo{registros: map[uuid.UUID]*Colaborador{}}
}

func (s *stubColaboradorRepo) Insert(ctx context.Context, c *Colaborador) (*Colaborador, error) {
	out := *c
	s.registros[out.UID] = &out
	return &out, nil
}

func (s *stubColaboradorRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*Colaborador, error) {
	c, ok := s.registros[uid]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *stubColaboradorRepo) List(ctx context.Context) ([]Colaborador, error) {
	var result []Colaborador
	for _, c := range s.registros {
		result = append(result, *c)
	}
	return result, nil
}

func (s *stubColaboradorRepo) SetAtivo(ctx context.Context, uid uuid.UUID, ativo bool) error {
	c, ok := s.registros[uid]
	if !ok {
		return apperr.ErrNotFound
	}
	c.Ativo = ativo
	return nil
}

type stubContas struct {
	err     error
	chamado int
}

func (s *stubContas) Criar(ctx context.Context, email, senha string) (uuid.UUID, error) {
	s.chamado++
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return uuid.New(), nil
}

type stubAudit struct {
	acoes []string
	err   error
}

func (s *stubAudit) Registar(ctx context.Context, acao, detalhe, utilizador string) error {
	s.acoes = append(s.acoes, acao)
	return s.err
}

func entradaValida() AddInput {
	return AddInput{
		Nome:      "Rui Costa",
		Email:     "rui@ipb.pt",
		Password:  "Segredo#2026",
		Cargo:     "Voluntário",
		Permissao: "GESTOR",
	}
}

func TestAddCriaContaEColaborador(t *testing.T) {
	repo := newStubColaboradorRepo()
	audit := &stubAudit{}
	svc := NewService(repo, &stubContas{}, audit, nil)

	created, err := svc.Add(context.Background(), entradaValida(), "Ana")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !created.Ativo {
		t.Error("novo colaborador deveria nascer ativo")
	}
	if created.Permissao != PermissaoGestor {
		t.Errorf("esperava GESTOR, veio %s", created.Permissao)
	}
	if len(audit.acoes) != 1 || audit.acoes[0] != "Criou colaborador" {
		t.Errorf("ação de auditoria divergiu: %v", audit.acoes)
	}
}

func TestAddPermissaoDesconhecidaCaiEmAcesso(t *testing.T) {
	svc := NewService(newStubColaboradorRepo(), &stubContas{}, &stubAudit{}, nil)

	input := entradaValida()
	input.Permissao = "superuser"

	created, err := svc.Add(context.Background(), input, "Ana")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.Permissao != PermissaoAcesso {
		t.Errorf("permissão desconhecida deveria cair em ACESSO, veio %s", created.Permissao)
	}
}

func TestAddContaFalhadaNadaMaisAcontece(t *testing.T) {
	repo := newStubColaboradorRepo()
	contas := &stubContas{err: errors.New("email já registrado")}
	svc := NewService(repo, contas, &stubAudit{}, nil)

	_, err := svc.Add(context.Background(), entradaValida(), "Ana")

	var we *apperr.WorkflowError
	if !errors.As(err, &we) || we.Etapa != "conta" {
		t.Fatalf("esperava WorkflowError da etapa conta, veio %v", err)
	}
	if len(repo.registros) != 0 {
		t.Error("o colaborador não deveria ter sido registrado")
	}
}

func TestAddValidaAntesDaConta(t *testing.T) {
	contas := &stubContas{}
	svc := NewService(newStubColaboradorRepo(), contas, &stubAudit{}, nil)

	casos := []AddInput{
		{Nome: "", Email: "rui@ipb.pt", Password: "Segredo#2026"},
		{Nome: "Rui", Email: "sem-arroba", Password: "Segredo#2026"},
		{Nome: "Rui", Email: "rui@ipb.pt", Password: "curta"},
	}
	for _, input := range casos {
		if _, err := svc.Add(context.Background(), input, "Ana"); !apperr.IsValidation(err) {
			t.Errorf("input %+v deveria falhar validação, veio %v", input, err)
		}
	}
	if contas.chamado != 0 {
		t.Errorf("nenhuma conta deveria ter sido criada, houve %d", contas.chamado)
	}
}

func TestAddFalhaDeAuditoriaEhParcial(t *testing.T) {
	audit := &stubAudit{err: errors.New("indisponível")}
	svc := NewService(newStubColaboradorRepo(), &stubContas{}, audit, nil)

	created, err := svc.Add(context.Background(), entradaValida(), "Ana")

	var we *apperr.WorkflowError
	if !errors.As(err, &we) || we.Etapa != "auditoria" {
		t.Fatalf("esperava WorkflowError da etapa auditoria, veio %v", err)
	}
	if created == nil {
		t.Error("o colaborador criado deveria ser devolvido mesmo com auditoria falhada")
	}
}

func TestToggleRegistraAcao(t *testing.T) {
	repo := newStubColaboradorRepo()
	audit := &stubAudit{}
	svc := NewService(repo, &stubContas{}, audit, nil)

	created, err := svc.Add(context.Background(), entradaValida(), "Ana")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	desativado, err := svc.Toggle(context.Background(), created.UID, "Ana")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if desativado.Ativo {
		t.Error("o colaborador deveria ter sido desativado")
	}

	reativado, err := svc.Toggle(context.Background(), created.UID, "Ana")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !reativado.Ativo {
		t.Error("o colaborador deveria ter sido reativado")
	}

	esperado := []string{"Criou colaborador", "Desativou colaborador", "Ativou colaborador"}
	if len(audit.acoes) != len(esperado) {
		t.Fatalf("esperava %d ações, veio %v", len(esperado), audit.acoes)
	}
	for i, acao := range esperado {
		if audit.acoes[i] != acao {
			t.Errorf("ação %d divergiu: esperava %q, veio %q", i, acao, audit.acoes[i])
		}
	}
}

func TestToggleDesconhecido(t *testing.T) {
	svc := NewService(newStubColaboradorRepo(), &stubContas{}, &stubAudit{}, nil)

	if _, err := svc.Toggle(context.Background(), uuid.New(), "Ana"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("esperava ErrNotFound, veio %v", err)
	}
}
