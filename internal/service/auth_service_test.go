package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/auth"
	"github.com/lojasocial-ipb/api/internal/beneficiario"
	"github.com/lojasocial-ipb/api/internal/colaborador"
	"github.com/lojasocial-ipb/api/internal/conta"
)

type stubContas struct {
	porEmail        map[string]*conta.Conta
	porID           map[uuid.UUID]*conta.Conta
	refresh         map[string]*conta.TokenRefresh
	getByEmailCalls int
}

func newStubContas() *stubContas {
	return &stubContas{
		porEmail: map[string]*conta.Conta{},
		porID:    map[uuid.UUID]*conta.Conta{},
		refresh:  map[string]*conta.TokenRefresh{},
	}
}

func (s *stubContas) adiciona(t *testing.T, email, senha string) uuid.UUID {
	t.Helper()
	hash, err := auth.Hash(senha)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	c := &conta.Conta{ID: uuid.New(), Email: email, SenhaHash: hash}
	s.porEmail[email] = c
	s.porID[c.ID] = c
	return c.ID
}

func (s *stubContas) GetByEmail(ctx context.Context, email string) (*conta.Conta, error) {
	s.getByEmailCalls++
	c, ok := s.porEmail[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *stubContas) GetByID(ctx context.Context, id uuid.UUID) (*conta.Conta, error) {
	c, ok := s.porID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *stubContas) InsertRefresh(ctx context.Context, contaID uuid.UUID, tokenHash string, expiraEm, quando time.Time) error {
	s.refresh[tokenHash] = &conta.TokenRefresh{
		ID:        uuid.New(),
		ContaID:   contaID,
		TokenHash: tokenHash,
		ExpiraEm:  expiraEm,
		CriadoEm:  quando,
	}
	return nil
}

func (s *stubContas) GetRefresh(ctx context.Context, tokenHash string) (*conta.TokenRefresh, error) {
	r, ok := s.refresh[tokenHash]
	if !ok || r.RevogadoEm != nil {
		return nil, apperr.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *stubContas) RevokeRefresh(ctx context.Context, tokenHash string, quando time.Time) error {
	if r, ok := s.refresh[tokenHash]; ok {
		r.RevogadoEm = &quando
	}
	return nil
}

func (s *stubContas) RevokeAll(ctx context.Context, contaID uuid.UUID, quando time.Time) error {
	for _, r := range s.refresh {
		if r.ContaID == contaID {
			r.RevogadoEm = &quando
		}
	}
	return nil
}

type stubColaboradores struct {
	porUID map[uuid.UUID]*colaborador.Colaborador
}

func (s *stubColaboradores) GetByUID(ctx context.Context, uid uuid.UUID) (*colaborador.Colaborador, error) {
	c, ok := s.porUID[uid]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *c
	return &out, nil
}

type stubBeneficiarios struct {
	porID map[uuid.UUID]*beneficiario.Beneficiario
}

func (s *stubBeneficiarios) GetByID(ctx context.Context, id uuid.UUID) (*beneficiario.Beneficiario, error) {
	b, ok := s.porID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *b
	return &out, nil
}

type stubRedis struct {
	valores map[string]string
}

func newStubRedis() *stubRedis {
	return &stubRedis{valores: map[string]string{}}
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	s.valores[key] = value.(string)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if v, ok := s.valores[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var apagadas int64
	for _, key := range keys {
		if _, ok := s.valores[key]; ok {
			delete(s.valores, key)
			apagadas++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(apagadas)
	return cmd
}

type authFixture struct {
	contas        *stubContas
	colaboradores *stubColaboradores
	beneficiarios *stubBeneficiarios
	redis         *stubRedis
	jwt           *auth.JWTManager
	svc           *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		contas:        newStubContas(),
		colaboradores: &stubColaboradores{porUID: map[uuid.UUID]*colaborador.Colaborador{}},
		beneficiarios: &stubBeneficiarios{porID: map[uuid.UUID]*beneficiario.Beneficiario{}},
		redis:         newStubRedis(),
		jwt:           auth.NewJWTManager("segredo-de-teste", time.Minute),
	}
	f.svc = NewAuthService(f.contas, f.colaboradores, f.beneficiarios, f.redis, f.jwt, time.Hour)
	return f
}

func TestLoginFormatoInvalidoNaoTocaNoArmazenamento(t *testing.T) {
	f := newAuthFixture()

	casos := []struct{ email, senha string }{
		{"", "segredo-forte"},
		{"sem-arroba", "segredo-forte"},
		{"maria@ipb.pt", ""},
		{"maria@ipb.pt", "curta12"},
	}
	for _, caso := range casos {
		_, err := f.svc.Login(context.Background(), caso.email, caso.senha)
		if !errors.Is(err, apperr.ErrFormatoCredenciais) {
			t.Errorf("login(%q, %q): esperava ErrFormatoCredenciais, veio %v", caso.email, caso.senha, err)
		}
	}
	if f.contas.getByEmailCalls != 0 {
		t.Errorf("o armazenamento não deveria ter sido consultado, houve %d chamadas", f.contas.getByEmailCalls)
	}
}

func TestLoginSenhaErrada(t *testing.T) {
	f := newAuthFixture()
	uid := f.contas.adiciona(t, "maria@ipb.pt", "segredo-forte")
	f.beneficiarios.porID[uid] = &beneficiario.Beneficiario{ID: uid, Nome: "Maria"}

	if _, err := f.svc.Login(context.Background(), "maria@ipb.pt", "errada-mesmo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("esperava ErrInvalidCredentials, veio %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "outra@ipb.pt", "segredo-forte"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("conta inexistente também é ErrInvalidCredentials, veio %v", err)
	}
}

func TestLoginColaboradorTemPrecedencia(t *testing.T) {
	f := newAuthFixture()
	uid := f.contas.adiciona(t, "ana@ipb.pt", "segredo-forte")
	f.colaboradores.porUID[uid] = &colaborador.Colaborador{UID: uid, Nome: "Ana", Ativo: true}
	f.beneficiarios.porID[uid] = &beneficiario.Beneficiario{ID: uid, Nome: "Ana"}

	result, err := f.svc.Login(context.Background(), "ANA@ipb.pt", "segredo-forte")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Papel != PapelColaborador {
		t.Errorf("colaborador tem precedência sobre beneficiário, veio %s", result.Papel)
	}

	claims, err := f.jwt.ParseAndValidate(result.AccessToken)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Papel != PapelColaborador || claims.Subject != uid.String() {
		t.Errorf("claims divergiram: papel=%s subject=%s", claims.Papel, claims.Subject)
	}
}

func TestLoginColaboradorInativo(t *testing.T) {
	f := newAuthFixture()
	uid := f.contas.adiciona(t, "ana@ipb.pt", "segredo-forte")
	f.colaboradores.porUID[uid] = &colaborador.Colaborador{UID: uid, Nome: "Ana", Ativo: false}
	f.beneficiarios.porID[uid] = &beneficiario.Beneficiario{ID: uid, Nome: "Ana"}

	if _, err := f.svc.Login(context.Background(), "ana@ipb.pt", "segredo-forte"); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("colaborador inativo não vira beneficiário, veio %v", err)
	}
}

func TestLoginSemPapel(t *testing.T) {
	f := newAuthFixture()
	f.contas.adiciona(t, "ninguem@ipb.pt", "segredo-forte")

	if _, err := f.svc.Login(context.Background(), "ninguem@ipb.pt", "segredo-forte"); !errors.Is(err, apperr.ErrRoleNotFound) {
		t.Errorf("identidade sem registro de domínio não entra, veio %v", err)
	}
}

func TestRefreshRotacionaOToken(t *testing.T) {
	f := newAuthFixture()
	uid := f.contas.adiciona(t, "maria@ipb.pt", "segredo-forte")
	f.beneficiarios.porID[uid] = &beneficiario.Beneficiario{ID: uid, Nome: "Maria"}

	sessao, err := f.svc.Login(context.Background(), "maria@ipb.pt", "segredo-forte")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	renovada, err := f.svc.Refresh(context.Background(), sessao.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if renovada.RefreshToken == sessao.RefreshToken {
		t.Error("o refresh token deveria ter sido rotacionado")
	}

	if _, err := f.svc.Refresh(context.Background(), sessao.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("token antigo deveria estar revogado, veio %v", err)
	}
}

func TestRefreshExpirado(t *testing.T) {
	f := newAuthFixture()
	uid := f.contas.adiciona(t, "maria@ipb.pt", "segredo-forte")
	f.beneficiarios.porID[uid] = &beneficiario.Beneficiario{ID: uid, Nome: "Maria"}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if err := f.contas.InsertRefresh(context.Background(), uid, hash, time.Now().Add(-time.Minute), time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("InsertRefresh: %v", err)
	}
	f.redis.valores[auth.RefreshRedisKey(hash)] = "active"

	if _, err := f.svc.Refresh(context.Background(), raw); !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("token expirado deveria ser rejeitado, veio %v", err)
	}
}

func TestRefreshSemFlagNoRedis(t *testing.T) {
	f := newAuthFixture()
	uid := f.contas.adiciona(t, "maria@ipb.pt", "segredo-forte")
	f.beneficiarios.porID[uid] = &beneficiario.Beneficiario{ID: uid, Nome: "Maria"}

	sessao, err := f.svc.Login(context.Background(), "maria@ipb.pt", "segredo-forte")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	delete(f.redis.valores, auth.RefreshRedisKey(auth.HashRefreshToken(sessao.RefreshToken)))

	if _, err := f.svc.Refresh(context.Background(), sessao.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("sem flag ativa no redis o refresh é inválido, veio %v", err)
	}
}

func TestLogoutRevoga(t *testing.T) {
	f := newAuthFixture()
	uid := f.contas.adiciona(t, "maria@ipb.pt", "segredo-forte")
	f.beneficiarios.porID[uid] = &beneficiario.Beneficiario{ID: uid, Nome: "Maria"}

	sessao, err := f.svc.Login(context.Background(), "maria@ipb.pt", "segredo-forte")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := f.svc.Logout(context.Background(), sessao.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), sessao.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("após logout o refresh deveria ser inválido, veio %v", err)
	}

	if err := f.svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("logout sem cookie é silencioso, veio %v", err)
	}
}
