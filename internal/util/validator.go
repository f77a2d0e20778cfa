package util

import (
	"strings"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// ValidateEmail rejeita e-mails vazios ou sem "@". A verificação é deliberadamente
// permissiva: a rejeição definitiva cabe ao fluxo de autenticação.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Validation("email", "obrigatório")
	}
	if !strings.Contains(email, "@") {
		return apperr.Validation("email", "inválido")
	}
	return nil
}

// ValidatePassword verifica requisitos mínimos de senha.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperr.Validation("senha", "deve ter pelo menos 8 caracteres")
	}
	return nil
}

// RequireString garante string não vazia.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validation(field, "obrigatório")
	}
	return nil
}
