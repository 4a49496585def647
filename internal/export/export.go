// Package export serializes result tables as CSV and archives them in the object store.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/query"
	"github.com/askdata/askdata/internal/storage"
)

const ContentType = "text/csv"

// WriteCSV writes a header row of column names followed by one record per row. Nulls become
// empty fields and times are written in RFC 3339.
func WriteCSV(w io.Writer, table *query.Table) error {
	if table == nil {
		return errors.New("table is required")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range record {
			if i < len(row) {
				record[i] = formatCell(row[i])
			} else {
				record[i] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// FileName is <dataset>_query_results_YYYYMMDD_HHMMSS.csv.
func FileName(dataset string, now time.Time) string {
	dataset = strings.TrimSpace(dataset)
	if dataset == "" {
		dataset = "askdata"
	}
	return fmt.Sprintf("%s_query_results_%s.csv", dataset, now.Format("20060102_150405"))
}

// Archive keeps exported CSV files in an object store under <prefix>/<dataset>/.
type Archive struct {
	Store  storage.ObjectStore
	Prefix string
	Clock  func() time.Time
}

func (a *Archive) Save(ctx context.Context, dataset string, table *query.Table) (storage.ObjectInfo, error) {
	if a.Store == nil {
		return storage.ObjectInfo{}, errors.New("object store is not configured")
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		return storage.ObjectInfo{}, err
	}
	fileName := FileName(dataset, a.now())
	key, err := storage.ExportKey(a.Prefix, dataset, fileName)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	info, err := a.Store.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), storage.PutOptions{
		ContentType:        ContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", fileName),
		Metadata: map[string]string{
			"dataset": dataset,
			"rows":    strconv.Itoa(table.Len()),
		},
	})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("archive export: %w", err)
	}
	observability.IncrementExport(true)
	if info.Key == "" {
		info.Key = key
	}
	if info.Size == 0 {
		info.Size = int64(buf.Len())
	}
	return info, nil
}

// Open returns an archived export by file name.
func (a *Archive) Open(ctx context.Context, dataset, fileName string) (io.ReadCloser, error) {
	if a.Store == nil {
		return nil, errors.New("object store is not configured")
	}
	key, err := storage.ExportKey(a.Prefix, dataset, fileName)
	if err != nil {
		return nil, err
	}
	return a.Store.Get(ctx, key)
}

// List returns archived exports of dataset.
func (a *Archive) List(ctx context.Context, dataset string) ([]storage.ObjectInfo, error) {
	if a.Store == nil {
		return nil, errors.New("object store is not configured")
	}
	prefix, err := storage.ExportPrefix(a.Prefix, dataset)
	if err != nil {
		return nil, err
	}
	return a.Store.List(ctx, prefix)
}

func (a *Archive) now() time.Time {
	if a.Clock == nil {
		return time.Now().UTC()
	}
	return a.Clock().UTC()
}
