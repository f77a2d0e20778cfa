package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/auth"
	"github.com/lojasocial-ipb/api/internal/beneficiario"
	"github.com/lojasocial-ipb/api/internal/colaborador"
	"github.com/lojasocial-ipb/api/internal/conta"
	"github.com/lojasocial-ipb/api/internal/util"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrAccountDisabled indica conta desativada.
	ErrAccountDisabled = errors.New("conta desativada")
	// ErrRefreshInvalid indica refresh token inválido ou expirado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
)

// Papéis resolvidos no login. O papel não é persistido na conta: deriva dos
// registros de domínio que referenciam o uid, colaborador antes de beneficiário.
const (
	PapelColaborador  = "COLABORADOR"
	PapelBeneficiario = "BENEFICIARIO"
)

type contasRepo interface {
	GetByEmail(ctx context.Context, email string) (*conta.Conta, error)
	GetByID(ctx context.Context, id uuid.UUID) (*conta.Conta, error)
	InsertRefresh(ctx context.Context, contaID uuid.UUID, tokenHash string, expiraEm, quando time.Time) error
	GetRefresh(ctx context.Context, tokenHash string) (*conta.TokenRefresh, error)
	RevokeRefresh(ctx context.Context, tokenHash string, quando time.Time) error
	RevokeAll(ctx context.Context, contaID uuid.UUID, quando time.Time) error
}

type colaboradores interface {
	GetByUID(ctx context.Context, uid uuid.UUID) (*colaborador.Colaborador, error)
}

type beneficiarios interface {
	GetByID(ctx context.Context, id uuid.UUID) (*beneficiario.Beneficiario, error)
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra regras de autenticação e sessões.
type AuthService struct {
	contas        contasRepo
	colaboradores colaboradores
	beneficiarios beneficiarios
	redis         redisCommander
	jwt           *auth.JWTManager
	refreshTTL    time.Duration
}

// NewAuthService cria novo serviço.
func NewAuthService(contas contasRepo, colaboradores colaboradores, beneficiarios beneficiarios, redisClient redisCommander, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		contas:        contas,
		colaboradores: colaboradores,
		beneficiarios: beneficiarios,
		redis:         redisClient,
		jwt:           jwtMgr,
		refreshTTL:    refreshTTL,
	}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult representa retorno padrão de autenticações.
type LoginResult struct {
	AccessToken   string
	RefreshToken  string
	Subject       uuid.UUID
	Papel         string
	Perfil        any
	RefreshExpiry time.Time
}

// Login autentica pelo par email/senha. Credenciais mal formadas são
// rejeitadas antes de qualquer acesso ao armazenamento.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || len(password) < 8 {
		return nil, apperr.ErrFormatoCredenciais
	}

	c, err := s.contas.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Warn().Msg("login: conta não encontrada")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, c.SenhaHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: verificação de senha falhou")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Msg("login: senha inválida")
		return nil, ErrInvalidCredentials
	}

	return s.emitirSessao(ctx, c.ID)
}

// ResolveRole determina o papel da identidade: colaborador tem precedência
// sobre beneficiário; identidade sem registro em nenhum dos dois não entra.
func (s *AuthService) ResolveRole(ctx context.Context, uid uuid.UUID) (string, any, error) {
	col, err := s.colaboradores.GetByUID(ctx, uid)
	switch {
	case err == nil:
		if !col.Ativo {
			return "", nil, ErrAccountDisabled
		}
		return PapelColaborador, col, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return "", nil, err
	}

	ben, err := s.beneficiarios.GetByID(ctx, uid)
	switch {
	case err == nil:
		return PapelBeneficiario, ben, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return "", nil, err
	}

	return "", nil, apperr.ErrRoleNotFound
}

// Refresh troca refresh token por novos tokens, revogando o anterior.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	if rawToken == "" {
		return nil, ErrRefreshInvalid
	}

	hash := auth.HashRefreshToken(rawToken)
	record, err := s.contas.GetRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	if util.Now().After(record.ExpiraEm) {
		return nil, ErrRefreshInvalid
	}

	redisKey := auth.RefreshRedisKey(hash)
	status, err := s.redis.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRefreshInvalid
	}
	if err != nil {
		return nil, err
	}
	if status != "active" {
		return nil, ErrRefreshInvalid
	}

	result, err := s.emitirSessao(ctx, record.ContaID)
	if err != nil {
		return nil, err
	}

	if err := s.contas.RevokeRefresh(ctx, hash, util.Now()); err != nil {
		return nil, err
	}
	if err := s.redis.Del(ctx, redisKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	return result, nil
}

// Logout revoga o refresh token atual.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	hash := auth.HashRefreshToken(rawToken)
	if err := s.contas.RevokeRefresh(ctx, hash, util.Now()); err != nil {
		return err
	}
	if err := s.redis.Del(ctx, auth.RefreshRedisKey(hash)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// GetMe devolve papel e perfil completos para o subject autenticado.
func (s *AuthService) GetMe(ctx context.Context, subject uuid.UUID) (string, any, error) {
	return s.ResolveRole(ctx, subject)
}

func (s *AuthService) emitirSessao(ctx context.Context, uid uuid.UUID) (*LoginResult, error) {
	papel, perfil, err := s.ResolveRole(ctx, uid)
	if err != nil {
		return nil, err
	}

	token, _, err := s.jwt.GenerateAccessToken(uid.String(), papel)
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expires := util.Now().Add(s.refreshTTL)
	if err := s.contas.InsertRefresh(ctx, uid, refreshHash, expires, util.Now()); err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, auth.RefreshRedisKey(refreshHash), "active", time.Until(expires)).Err(); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:   token,
		RefreshToken:  rawRefresh,
		Subject:       uid,
		Papel:         papel,
		Perfil:        perfil,
		RefreshExpiry: expires,
	}, nil
}
