package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// CSV — Recorder, пишущий журнал в дневные CSV-файлы
// audit_YYYYMMDD.csv внутри заданного каталога.
type CSV struct {
	dir string

	mu      sync.Mutex
	day     string
	file    *os.File
	writer  *csv.Writer
	nowFunc func() time.Time
}

// NewCSV создаёт Recorder в каталоге dir (создаётся при необходимости).
func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &CSV{dir: dir, nowFunc: time.Now}, nil
}

// Record дописывает запись в файл текущего дня.
func (c *CSV) Record(_ context.Context, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.rotateLocked(); err != nil {
		return err
	}

	record := []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.BatchID,
		e.JobName,
		string(e.Status),
		strconv.FormatInt(e.RowsProcessed, 10),
		strconv.FormatInt(e.Duration.Milliseconds(), 10),
		e.PartitionPath,
		e.Error,
	}
	if err := c.writer.Write(record); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	c.writer.Flush()
	return c.writer.Error()
}

// rotateLocked открывает файл текущего дня, если день сменился.
func (c *CSV) rotateLocked() error {
	day := c.nowFunc().UTC().Format("20060102")
	if c.file != nil && day == c.day {
		return nil
	}

	if c.file != nil {
		c.writer.Flush()
		c.file.Close()
	}

	path := filepath.Join(c.dir, "audit_"+day+".csv")
	info, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}

	c.day = day
	c.file = f
	c.writer = csv.NewWriter(f)

	// Заголовок пишется только в новый (пустой) файл.
	if statErr != nil || info.Size() == 0 {
		header := []string{
			"timestamp", "batch_id", "job_name", "status",
			"rows_processed", "duration_ms", "partition_path", "error",
		}
		if err := c.writer.Write(header); err != nil {
			return fmt.Errorf("write audit header: %w", err)
		}
		c.writer.Flush()
	}
	return c.writer.Error()
}

// Close сбрасывает буфер и закрывает текущий файл.
func (c *CSV) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}
