package service

import (
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/storage"
)

// DocumentValidator checks an uploaded fiscal certificate before it is
// forwarded to the workflow engine. The name suffix is checked first so
// an obviously wrong file never touches disk; content sniffing catches
// a renamed one.
type DocumentValidator struct {
	store *storage.Store
}

func NewDocumentValidator(store *storage.Store) *DocumentValidator {
	return &DocumentValidator{store: store}
}

// ValidateAndStore saves the upload to a temp file and returns its
// path. The caller owns the file and must remove it on every exit path;
// on a validation failure the file is already gone.
func (v *DocumentValidator) ValidateAndStore(src io.Reader, filename string) (string, error) {
	if filename == "" {
		return "", apperrors.InvalidDocument("No se seleccionó ningún archivo.")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return "", apperrors.InvalidDocument("El archivo debe ser un PDF.")
	}

	path, err := v.store.SaveTemp(src, filename)
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("failed to store upload")
		return "", apperrors.Internal("No se pudo guardar el archivo. Intenta nuevamente.")
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil || !mtype.Is("application/pdf") {
		v.store.Remove(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("mime detection failed")
		}
		return "", apperrors.InvalidDocument("El archivo no es un PDF válido.")
	}

	return path, nil
}
