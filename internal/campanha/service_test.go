package campanha

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

type stubCampanhaRepo struct {
	registros map[uuid.UUID]*Campanha
}

func newStubCampanhaRepo() *stubCampanhaRepo {
	return &stubCampanhaRepo{registros: map[uuid.UUID]*Campanha{}}
}

func (s *stubCampanhaRepo) Insert(ctx context.Context, c *Campanha) (*Campanha, error) {
	out := *c
	out.ID = uuid.New()
	s.registros[out.ID] = &out
	return &out, nil
}

func (s *stubCampanhaRepo) GetByID(ctx context.Context, id uuid.UUID) (*Campanha, error) {
	c, ok := s.registros[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *stubCampanhaRepo) List(ctx context.Context) ([]Campanha, error) {
	var result []Campanha
	for _, c := range s.registros {
		result = append(result, *c)
	}
	return result, nil
}

func (s *stubCampanhaRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error {
	c, ok := s.registros[id]
	if !ok {
		return apperr.ErrNotFound
	}
	c.Estado = estado
	return nil
}

type stubAudit struct {
	acoes []string
	err   error
}

func (s *stubAudit) Registar(ctx context.Context, acao, detalhe, utilizador string) error {
	s.acoes = append(s.acoes, acao)
	return s.err
}

func TestAddRejeitaFimAntesDoInicio(t *testing.T) {
	svc := NewService(newStubCampanhaRepo(), &stubAudit{})

	agora := time.Now()
	_, err := svc.Add(context.Background(), AddInput{
		Titulo: "Natal Solidário",
		Inicio: agora,
		Fim:    agora.Add(-time.Hour),
	}, "equipa")
	if !apperr.IsValidation(err) {
		t.Errorf("fim anterior ao início deveria ser rejeitado, veio %v", err)
	}
}

func TestAddRegistraAuditoria(t *testing.T) {
	audit := &stubAudit{}
	svc := NewService(newStubCampanhaRepo(), audit)

	agora := time.Now()
	if _, err := svc.Add(context.Background(), AddInput{Titulo: "Recolha", Inicio: agora, Fim: agora.Add(time.Hour)}, "equipa"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(audit.acoes) != 1 {
		t.Fatalf("esperava 1 registro de auditoria, veio %d", len(audit.acoes))
	}
}

func TestAddFalhaDeAuditoriaEhParcial(t *testing.T) {
	audit := &stubAudit{err: errors.New("indisponível")}
	svc := NewService(newStubCampanhaRepo(), audit)

	agora := time.Now()
	created, err := svc.Add(context.Background(), AddInput{Titulo: "Recolha", Inicio: agora, Fim: agora.Add(time.Hour)}, "equipa")

	var we *apperr.WorkflowError
	if !errors.As(err, &we) {
		t.Fatalf("esperava WorkflowError, veio %v", err)
	}
	if we.Etapa != "auditoria" {
		t.Errorf("etapa deveria ser auditoria, veio %q", we.Etapa)
	}
	if created == nil {
		t.Error("a campanha criada deveria ser devolvida mesmo com auditoria falhada")
	}
}

func TestAtualizarEstadoProgressaoMonotonica(t *testing.T) {
	repo := newStubCampanhaRepo()
	svc := NewService(repo, &stubAudit{})

	agora := time.Now()
	c, err := svc.Add(context.Background(), AddInput{Titulo: "Recolha", Inicio: agora, Fim: agora.Add(time.Hour)}, "equipa")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := svc.AtualizarEstado(context.Background(), c.ID, "ATIVA", "equipa"); err != nil {
		t.Fatalf("PLANEADA para ATIVA deveria ser permitida: %v", err)
	}
	if _, err := svc.AtualizarEstado(context.Background(), c.ID, "INATIVA", "equipa"); err != nil {
		t.Fatalf("ATIVA para INATIVA deveria ser permitida: %v", err)
	}
	if _, err := svc.AtualizarEstado(context.Background(), c.ID, "ATIVA", "equipa"); !apperr.IsValidation(err) {
		t.Errorf("INATIVA não pode voltar a ATIVA, veio %v", err)
	}
	if _, err := svc.AtualizarEstado(context.Background(), c.ID, "PLANEADA", "equipa"); !apperr.IsValidation(err) {
		t.Errorf("regressão para PLANEADA deveria ser rejeitada, veio %v", err)
	}
}

func TestPodeTransitar(t *testing.T) {
	casos := []struct {
		de, para Estado
		ok       bool
	}{
		{EstadoPlaneada, EstadoAtiva, true},
		{EstadoPlaneada, EstadoInativa, true},
		{EstadoAtiva, EstadoInativa, true},
		{EstadoAtiva, EstadoPlaneada, false},
		{EstadoInativa, EstadoAtiva, false},
		{EstadoAtiva, EstadoAtiva, false},
	}
	for _, caso := range casos {
		if got := PodeTransitar(caso.de, caso.para); got != caso.ok {
			t.Errorf("PodeTransitar(%s, %s) = %v, esperava %v", caso.de, caso.para, got, caso.ok)
		}
	}
}
