package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // регистрация драйвера SQLite

	"defect-detector/internal/domain/entity"
	"defect-detector/internal/domain/port"
)

// SQLiteBatchRepository долговременное хранилище сводок по пачкам.
// Множество типов дефектов и список времён хранятся JSON-колонками:
// типы сериализуются отсортированным списком для стабильной кодировки.
type SQLiteBatchRepository struct {
	db *sql.DB
}

// NewSQLiteBatchRepository открывает базу и создаёт таблицу при необходимости.
func NewSQLiteBatchRepository(dataSourceName string) (*SQLiteBatchRepository, error) {
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000"
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &SQLiteBatchRepository{db: db}, nil
}

func createTables(db *sql.DB) error {
	createBatchesTable := `
    CREATE TABLE IF NOT EXISTS batch_summaries (
        id TEXT PRIMARY KEY,
        created_at DATETIME NOT NULL,
        total_images INTEGER NOT NULL,
        good_products INTEGER NOT NULL,
        defective_products INTEGER NOT NULL,
        defect_rate REAL NOT NULL,
        defect_types_found TEXT NOT NULL,
        processing_times TEXT NOT NULL,
        avg_processing_time REAL NOT NULL,
        failed_processing INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_batch_summaries_created_at ON batch_summaries(created_at);
    `

	_, err := db.Exec(createBatchesTable)
	if err != nil {
		return fmt.Errorf("error creating batch_summaries table: %w", err)
	}

	return nil
}

// Save сохраняет запись о запуске пачки.
func (r *SQLiteBatchRepository) Save(ctx context.Context, record *entity.BatchRecord) error {
	types, err := json.Marshal(record.Summary.DefectTypesFound)
	if err != nil {
		return fmt.Errorf("error marshaling defect types: %w", err)
	}
	times, err := json.Marshal(record.Summary.ProcessingTimes)
	if err != nil {
		return fmt.Errorf("error marshaling processing times: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO batch_summaries (
            id, created_at, total_images, good_products, defective_products,
            defect_rate, defect_types_found, processing_times,
            avg_processing_time, failed_processing
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
		record.Summary.TotalImages,
		record.Summary.GoodProducts,
		record.Summary.DefectiveProducts,
		record.Summary.DefectRate,
		string(types),
		string(times),
		record.Summary.AvgProcessingTime,
		record.Summary.FailedProcessing,
	)
	if err != nil {
		return fmt.Errorf("error saving batch record: %w", err)
	}

	return nil
}

// List возвращает последние записи, новые в начале.
func (r *SQLiteBatchRepository) List(ctx context.Context, limit int) ([]entity.BatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, created_at, total_images, good_products, defective_products,
               defect_rate, defect_types_found, processing_times,
               avg_processing_time, failed_processing
        FROM batch_summaries
        ORDER BY created_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying batch records: %w", err)
	}
	defer rows.Close()

	var records []entity.BatchRecord
	for rows.Next() {
		var record entity.BatchRecord
		var createdAt, types, times string

		err := rows.Scan(
			&record.ID,
			&createdAt,
			&record.Summary.TotalImages,
			&record.Summary.GoodProducts,
			&record.Summary.DefectiveProducts,
			&record.Summary.DefectRate,
			&types,
			&times,
			&record.Summary.AvgProcessingTime,
			&record.Summary.FailedProcessing,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning batch record: %w", err)
		}

		if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("error parsing created_at: %w", err)
		}
		if err := json.Unmarshal([]byte(types), &record.Summary.DefectTypesFound); err != nil {
			return nil, fmt.Errorf("error unmarshaling defect types: %w", err)
		}
		if err := json.Unmarshal([]byte(times), &record.Summary.ProcessingTimes); err != nil {
			return nil, fmt.Errorf("error unmarshaling processing times: %w", err)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// Close закрывает базу.
func (r *SQLiteBatchRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.BatchRepository = (*SQLiteBatchRepository)(nil)
