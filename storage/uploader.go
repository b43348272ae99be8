package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
}

// FileUploader складывает сгенерированные файлы (CSV-экспорты отчётов)
// туда, откуда их заберёт оболочка приложения.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	// GetPublicURL возвращает адрес, по которому доступен ранее
	// загруженный файл. Для ключа, который реализация не может
	// отобразить в адрес, возвращается пустая строка.
	GetPublicURL(key string) string
}
