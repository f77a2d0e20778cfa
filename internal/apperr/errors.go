package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound é retornado quando nenhum registro é encontrado.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrRoleNotFound indica identidade autenticada sem papel atribuível.
	ErrRoleNotFound = errors.New("papel não encontrado para a identidade")
	// ErrFormatoCredenciais indica credenciais mal formadas antes de qualquer I/O.
	ErrFormatoCredenciais = errors.New("formato de credenciais inválido")
)

// ValidationError descreve uma entrada rejeitada antes de qualquer efeito colateral.
type ValidationError struct {
	Campo    string
	Mensagem string
}

func (e *ValidationError) Error() string {
	if e.Campo == "" {
		return e.Mensagem
	}
	return e.Campo + ": " + e.Mensagem
}

// Validation cria um ValidationError para o campo informado.
func Validation(campo, mensagem string) error {
	return &ValidationError{Campo: campo, Mensagem: mensagem}
}

// IsValidation indica se o erro é de validação.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UploadError indica falha ao enviar arquivo para o storage externo.
type UploadError struct {
	Chave string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload de %q falhou: %v", e.Chave, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// WorkflowError sinaliza falha parcial em fluxo multi-etapa: etapas anteriores
// já foram persistidas e não são revertidas.
type WorkflowError struct {
	Etapa string
	Err   error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("etapa %q falhou: %v", e.Etapa, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// Workflow embrulha erro de uma etapa nomeada.
func Workflow(etapa string, err error) error {
	return &WorkflowError{Etapa: etapa, Err: err}
}
