package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lojasocial-ipb/api/internal/auth"
)

func protegido(t *testing.T, mgr *auth.JWTManager, papeis ...string) http.Handler {
	t.Helper()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Subject", GetSubject(r.Context()))
		w.Header().Set("X-Papel", GetPapel(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})

	var handler http.Handler = final
	if len(papeis) > 0 {
		handler = RequirePapel(papeis...)(handler)
	}
	return Auth(mgr)(handler)
}

func TestAuthSemTokenRejeita(t *testing.T) {
	mgr := auth.NewJWTManager("segredo-de-teste", time.Minute)
	handler := protegido(t, mgr)

	casos := []string{"", "Basic abc", "Bearer"}
	for _, header := range casos {
		req := httptest.NewRequest(http.MethodGet, "/v1/pedidos", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: esperava 401, veio %d", header, rec.Code)
		}
	}
}

func TestAuthTokenDeOutroSegredo(t *testing.T) {
	mgr := auth.NewJWTManager("segredo-de-teste", time.Minute)
	outro := auth.NewJWTManager("outro-segredo", time.Minute)

	token, _, err := outro.GenerateAccessToken("abc", "COLABORADOR")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/pedidos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protegido(t, mgr).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("assinatura alheia deveria ser rejeitada, veio %d", rec.Code)
	}
}

func TestAuthTokenExpirado(t *testing.T) {
	mgr := auth.NewJWTManager("segredo-de-teste", -time.Minute)

	token, _, err := mgr.GenerateAccessToken("abc", "COLABORADOR")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/pedidos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protegido(t, mgr).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("token expirado deveria ser rejeitado, veio %d", rec.Code)
	}
}

func TestAuthSemPapelRejeita(t *testing.T) {
	mgr := auth.NewJWTManager("segredo-de-teste", time.Minute)

	token, _, err := mgr.GenerateAccessToken("abc", "")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/pedidos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protegido(t, mgr).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("token sem papel deveria ser rejeitado, veio %d", rec.Code)
	}
}

func TestAuthInjetaClaimsNoContexto(t *testing.T) {
	mgr := auth.NewJWTManager("segredo-de-teste", time.Minute)

	token, _, err := mgr.GenerateAccessToken("abc-123", "BENEFICIARIO")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/meus/pedidos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protegido(t, mgr).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("esperava 204, veio %d", rec.Code)
	}
	if rec.Header().Get("X-Subject") != "abc-123" || rec.Header().Get("X-Papel") != "BENEFICIARIO" {
		t.Errorf("claims divergiram: subject=%s papel=%s", rec.Header().Get("X-Subject"), rec.Header().Get("X-Papel"))
	}
}

func TestRequirePapelBloqueiaOutroPapel(t *testing.T) {
	mgr := auth.NewJWTManager("segredo-de-teste", time.Minute)

	token, _, err := mgr.GenerateAccessToken("abc", "BENEFICIARIO")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/colaboradores", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protegido(t, mgr, "COLABORADOR").ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("beneficiário não entra em rota da equipe, veio %d", rec.Code)
	}
}

func TestRequirePapelAceitaQualquerUmDosPapeis(t *testing.T) {
	mgr := auth.NewJWTManager("segredo-de-teste", time.Minute)

	token, _, err := mgr.GenerateAccessToken("abc", "BENEFICIARIO")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protegido(t, mgr, "COLABORADOR", "BENEFICIARIO").ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("esperava 204, veio %d", rec.Code)
	}
}
