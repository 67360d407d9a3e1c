package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/shaiso/Conveyor/internal/metrics"
)

// Output — форматированный вывод CLI-команд: таблица для терминала,
// JSON для машинной обработки. Данные идут в stdout, сообщения — в stderr.
type Output struct {
	json bool
	w    io.Writer
	errW io.Writer
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(jsonMode bool) *Output {
	return &Output{json: jsonMode, w: os.Stdout, errW: os.Stderr}
}

// Print выводит данные в формате текущего режима.
// jsonData — представление для JSON-режима (обычно исходная структура,
// а не строки таблицы).
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.json {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows)
}

// Table выводит строки с выравниванием колонок.
func (o *Output) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	writeRow := func(cells []string) {
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	writeRow(headers)

	sep := make([]string, len(headers))
	for i, h := range headers {
		sep[i] = strings.Repeat("-", utf8.RuneCountInString(h))
	}
	writeRow(sep)

	for _, row := range rows {
		writeRow(row)
	}
}

// JSON выводит данные с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Success выводит итоговое сообщение в stderr,
// чтобы не мешать машинной обработке stdout.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}

// jobRows форматирует метрики jobs под заголовки
// JOB / STATUS / ROWS / RETRIES / DURATION.
func jobRows(jobs []*metrics.JobMetrics) [][]string {
	rows := make([][]string, len(jobs))
	for i, m := range jobs {
		rows[i] = []string{
			m.JobName,
			string(m.Status),
			strconv.FormatInt(m.RowsProcessed, 10),
			strconv.Itoa(m.RetryCount),
			m.Duration().Round(time.Millisecond).String(),
		}
	}
	return rows
}
