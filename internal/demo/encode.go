package demo

import (
	"bytes"
	"context"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/askdata/askdata/internal/storage"
)

const parquetContentType = "application/vnd.apache.parquet"

// EncodeTable writes one table of the dataset as a parquet file.
func EncodeTable(ds Dataset, table string) ([]byte, error) {
	switch table {
	case TableProjects:
		return encodeRows(ds.Projects)
	case TableShareholders:
		return encodeRows(ds.Shareholders)
	case TableAnnual:
		return encodeRows(ds.Annual)
	default:
		return nil, fmt.Errorf("unknown demo table %q", table)
	}
}

func encodeRows[T any](rows []T) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("rows are required")
	}
	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[T](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// SeedResult describes one uploaded table file.
type SeedResult struct {
	Table  string             `json:"table"`
	Rows   int                `json:"rows"`
	Object storage.ObjectInfo `json:"object"`
}

// Seed uploads every table of ds to store under <prefix>/<table>.parquet, replacing earlier uploads.
func Seed(ctx context.Context, store storage.ObjectStore, prefix string, ds Dataset) ([]SeedResult, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	counts := ds.Rows()
	results := make([]SeedResult, 0, len(Tables()))
	for _, table := range Tables() {
		if counts[table] == 0 {
			continue
		}
		data, err := EncodeTable(ds, table)
		if err != nil {
			return results, fmt.Errorf("encode %s: %w", table, err)
		}
		key, err := storage.DatasetTableKey(prefix, table)
		if err != nil {
			return results, err
		}
		info, err := store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), storage.PutOptions{ContentType: parquetContentType})
		if err != nil {
			return results, fmt.Errorf("upload %s: %w", table, err)
		}
		if info.Key == "" {
			info.Key = key
		}
		results = append(results, SeedResult{Table: table, Rows: counts[table], Object: info})
	}
	return results, nil
}
