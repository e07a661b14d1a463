package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lightbox/internal/storage"
)

var ErrInvalidKey = errors.New("invalid storage key")

// FileStorage интерфейс для работы с файловым хранилищем.
// key относительный путь объекта, например galleries/<gid>/<pid>/thumb.jpg
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader) (size int64, err error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// LocalFileStorage реализация для локальной файловой системы
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:8080/uploads")
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	filePath, err := s.resolve(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, r)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return 0, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return 0, ctx.Err()
	}

	return size, nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(_ context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", key, storage.ErrFileNotFound)
		}
		return err
	}

	return nil
}

// URL возвращает публичный адрес объекта
func (s *LocalFileStorage) URL(key string) string {
	return s.baseURL + "/" + filepath.ToSlash(filepath.Clean(key))
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(key string) string {
	return filepath.Join(s.baseDir, key)
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

// resolve не дает ключу выйти за пределы baseDir
func (s *LocalFileStorage) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if key == "" || clean == "/" {
		return "", ErrInvalidKey
	}

	full := filepath.Join(s.baseDir, clean)
	rel, err := filepath.Rel(s.baseDir, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidKey
	}

	return full, nil
}
