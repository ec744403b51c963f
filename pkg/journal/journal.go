// Package journal ведёт локальный журнал вызовов brain'а в SQLite.
//
// Используется dev-инструментами для разбора сессий: одна строка на
// операцию (операция, модель, длительность, успех, текст ошибки).
// Опциональная зависимость — сам brain о журнале не знает.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Регистрируем драйвер
)

// Entry — одна запись журнала.
type Entry struct {
	ID        string
	Operation string // "prompt", "transcribe", "generate_image"
	Model     string
	Duration  time.Duration
	OK        bool
	Error     string
	CreatedAt time.Time
}

// Journal — журнал вызовов поверх SQLite.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	id          TEXT PRIMARY KEY,
	operation   TEXT NOT NULL,
	model       TEXT,
	duration_ms INTEGER NOT NULL,
	ok          INTEGER NOT NULL,
	error       TEXT,
	created_at  TIMESTAMP NOT NULL
);`

// Open открывает (или создаёт) журнал по указанному пути.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record добавляет запись в журнал.
func (j *Journal) Record(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := j.db.Exec(
		`INSERT INTO calls (id, operation, model, duration_ms, ok, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Operation, e.Model, e.Duration.Milliseconds(), e.OK, e.Error, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}

	return nil
}

// Recent возвращает последние limit записей, новые первыми.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, operation, model, duration_ms, ok, error, created_at
		 FROM calls ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.Operation, &e.Model, &durationMs, &e.OK, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close закрывает журнал.
func (j *Journal) Close() error {
	return j.db.Close()
}
