package storage

import "context"

// UploadInput representa uma operação de upload de documento de candidatura.
type UploadInput struct {
	Key         string
	Body        []byte
	ContentType string
}

// UploadResult descreve o artefato persistido.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader define o contrato de armazenamento de arquivos.
// Delete é melhor-esforço: objetos inexistentes não produzem erro.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, url string) error
}
