// Package storage implementa el colaborador de archivos de evidencia sobre
// disco local. El núcleo solo conoce las referencias que devuelve Store.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

var _ usecase.EvidenceStorage = (*LocalStorage)(nil)

// LocalStorage guarda adjuntos bajo <dir>/<orderID>/<uuid><ext>.
type LocalStorage struct {
	dir string
}

// NewLocalStorage crea el directorio base si no existe.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de evidencias: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Store escribe el archivo y devuelve su referencia. El nombre en disco es un
// UUID para que dos subidas con el mismo nombre original no colisionen.
func (s *LocalStorage) Store(_ context.Context, orderID string, content []byte, originalName, mimeType string) (entity.EvidenceFile, error) {
	orderDir := filepath.Join(s.dir, orderID)
	if err := os.MkdirAll(orderDir, 0o755); err != nil {
		return entity.EvidenceFile{}, fmt.Errorf("crear directorio de la orden: %w", err)
	}
	ext := sanitizeExt(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	path := filepath.Join(orderDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return entity.EvidenceFile{}, fmt.Errorf("escribir archivo: %w", err)
	}
	return entity.EvidenceFile{
		Path:         filepath.Join(orderID, name),
		OriginalName: originalName,
		MimeType:     mimeType,
	}, nil
}

// RemoveAll elimina todos los adjuntos de una orden (borrado administrativo).
func (s *LocalStorage) RemoveAll(_ context.Context, orderID string) error {
	if err := os.RemoveAll(filepath.Join(s.dir, orderID)); err != nil {
		return fmt.Errorf("eliminar evidencias: %w", err)
	}
	return nil
}

// sanitizeExt descarta extensiones sospechosas o demasiado largas.
func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
