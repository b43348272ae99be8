package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// Connect открывает файл SQLite и проверяет соединение. Внешние ключи
// включаются на уровне DSN, иначе каждое новое соединение пула получило
// бы их выключенными.
//
// Пул ограничен одним соединением: пишет в файл один локальный
// пользователь, и одно долгоживущее соединение вместо открытия и
// закрытия на каждый вызов сериализует чтения и записи между собой.
func Connect(path string, timeout time.Duration) (*sql.DB, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database within %v: %w (close: %v)", timeout, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

// ConnectInMemory — база в памяти для тестов. Один коннект обязателен:
// каждое новое соединение с ":memory:" видело бы собственную пустую базу.
func ConnectInMemory() (*sql.DB, error) {
	return Connect(":memory:", 5*time.Second)
}
