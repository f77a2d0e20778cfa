package beneficiario

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

type stubBeneficiarioRepo struct {
	registros   map[uuid.UUID]*Beneficiario
	insertCalls int
}

func newStubBeneficiarioRepo() *stubBeneficiarioRepo {
	return &stubBeneficiarioRepo{registros: map[uuid.UUID]*Beneficiario{}}
}

func (s *stubBeneficiarioRepo) Insert(ctx context.Context, b *Beneficiario) (*Beneficiario, error) {
	s.insertCalls++
	out := *b
	s.registros[out.ID] = &out
	return &out, nil
}

func (s *stubBeneficiarioRepo) GetByID(ctx context.Context, id uuid.UUID) (*Beneficiario, error) {
	b, ok := s.registros[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (s *stubBeneficiarioRepo) List(ctx context.Context) ([]Beneficiario, error) {
	var result []Beneficiario
	for _, b := range s.registros {
		result = append(result, *b)
	}
	return result, nil
}

func (s *stubBeneficiarioRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error {
	b, ok := s.registros[id]
	if !ok {
		return apperr.ErrNotFound
	}
	b.Estado = estado
	return nil
}

func (s *stubBeneficiarioRepo) Update(ctx context.Context, input UpdateInput) (*Beneficiario, error) {
	b, ok := s.registros[input.ID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if input.Nome != nil {
		b.Nome = *input.Nome
	}
	if input.Email != nil {
		b.Email = *input.Email
	}
	out := *b
	return &out, nil
}

func TestAddValidaAntesDoRepositorio(t *testing.T) {
	repo := newStubBeneficiarioRepo()
	svc := NewService(repo)

	casos := []AddInput{
		{ID: "", Nome: "Maria"},
		{ID: "   ", Nome: "Maria"},
		{ID: uuid.NewString(), Nome: ""},
		{ID: "não-uuid", Nome: "Maria"},
	}
	for _, input := range casos {
		if _, err := svc.Add(context.Background(), input); !apperr.IsValidation(err) {
			t.Errorf("input %+v deveria falhar validação, veio %v", input, err)
		}
	}
	if repo.insertCalls != 0 {
		t.Errorf("nenhuma inserção deveria ter acontecido, houve %d", repo.insertCalls)
	}
}

func TestAddEntraEmAnalise(t *testing.T) {
	svc := NewService(newStubBeneficiarioRepo())

	b, err := svc.Add(context.Background(), AddInput{ID: uuid.NewString(), Nome: "Maria", Email: "MARIA@IPB.PT"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.Estado != EstadoAnalise {
		t.Errorf("novo registro deveria entrar em ANALISE, veio %s", b.Estado)
	}
	if b.Email != "maria@ipb.pt" {
		t.Errorf("email deveria ser normalizado, veio %q", b.Email)
	}
}

func TestListOrdenaPorNomeSensivelAMaiusculas(t *testing.T) {
	repo := newStubBeneficiarioRepo()
	svc := NewService(repo)

	for _, nome := range []string{"bruno", "Ana", "Zulmira", "ana"} {
		if _, err := svc.Add(context.Background(), AddInput{ID: uuid.NewString(), Nome: nome}); err != nil {
			t.Fatalf("Add(%s): %v", nome, err)
		}
	}

	result, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	esperado := []string{"Ana", "Zulmira", "ana", "bruno"}
	if len(result) != len(esperado) {
		t.Fatalf("esperava %d registros, veio %d", len(esperado), len(result))
	}
	for i, nome := range esperado {
		if result[i].Nome != nome {
			t.Errorf("posição %d: esperava %q, veio %q", i, nome, result[i].Nome)
		}
	}
}

func TestAtualizarEstadoDesconhecido(t *testing.T) {
	svc := NewService(newStubBeneficiarioRepo())

	if _, err := svc.AtualizarEstado(context.Background(), uuid.New(), "APAGADO"); !apperr.IsValidation(err) {
		t.Errorf("estado desconhecido deveria ser rejeitado, veio %v", err)
	}
}

func TestAtualizarEstadoDesligamento(t *testing.T) {
	repo := newStubBeneficiarioRepo()
	svc := NewService(repo)

	b, err := svc.Add(context.Background(), AddInput{ID: uuid.NewString(), Nome: "Maria"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	updated, err := svc.AtualizarEstado(context.Background(), b.ID, "INATIVO")
	if err != nil {
		t.Fatalf("AtualizarEstado: %v", err)
	}
	if updated.Estado != EstadoInativo {
		t.Errorf("esperava INATIVO, veio %s", updated.Estado)
	}
	if _, ok := repo.registros[b.ID]; !ok {
		t.Error("desligamento nunca remove o registro")
	}
}
