package auditoria

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

type stubLogRepo struct {
	entradas []AppLog
}

func (s *stubLogRepo) Insert(ctx context.Context, input RegistarInput) (*AppLog, error) {
	entry := AppLog{
		ID:         uuid.New(),
		Acao:       input.Acao,
		Detalhe:    input.Detalhe,
		Utilizador: input.Utilizador,
		Timestamp:  input.Timestamp,
	}
	s.entradas = append(s.entradas, entry)
	return &entry, nil
}

func (s *stubLogRepo) List(ctx context.Context, limit int) ([]AppLog, error) {
	if limit > len(s.entradas) {
		limit = len(s.entradas)
	}
	out := make([]AppLog, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.entradas[len(s.entradas)-1-i]
	}
	return out, nil
}

func TestRegistarSemUtilizadorViraSistema(t *testing.T) {
	repo := &stubLogRepo{}
	svc := NewService(repo, nil)

	for _, ator := range []string{"", "   "} {
		entry, err := svc.Registar(context.Background(), "Criou campanha", "Natal Solidário", ator)
		if err != nil {
			t.Fatalf("Registar: %v", err)
		}
		if entry.Utilizador != AtorSistema {
			t.Errorf("ator %q deveria virar %q, veio %q", ator, AtorSistema, entry.Utilizador)
		}
	}
}

func TestRegistarAcaoObrigatoria(t *testing.T) {
	repo := &stubLogRepo{}
	svc := NewService(repo, nil)

	if _, err := svc.Registar(context.Background(), "   ", "detalhe", "Ana"); !apperr.IsValidation(err) {
		t.Errorf("ação em branco deveria ser rejeitada, veio %v", err)
	}
	if len(repo.entradas) != 0 {
		t.Error("nada deveria ter sido registrado")
	}
}

func TestRegistarPreencheTimestamp(t *testing.T) {
	svc := NewService(&stubLogRepo{}, nil)

	entry, err := svc.Registar(context.Background(), "Criou campanha", "", "Ana")
	if err != nil {
		t.Fatalf("Registar: %v", err)
	}
	if entry.Timestamp.IsZero() {
		t.Error("o timestamp deveria ser preenchido pelo serviço")
	}
}

func TestListMaisRecentesPrimeiro(t *testing.T) {
	repo := &stubLogRepo{}
	svc := NewService(repo, nil)

	for _, acao := range []string{"primeira", "segunda", "terceira"} {
		if _, err := svc.Registar(context.Background(), acao, "", "Ana"); err != nil {
			t.Fatalf("Registar(%s): %v", acao, err)
		}
	}

	result, err := svc.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result) != 2 || result[0].Acao != "terceira" || result[1].Acao != "segunda" {
		t.Errorf("listagem divergiu: %+v", result)
	}
}
