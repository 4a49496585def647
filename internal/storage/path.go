package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// DatasetTableKey is where the demo dataset keeps one table: <prefix>/<table>.parquet.
func DatasetTableKey(prefix, tableName string) (string, error) {
	if err := validatePathComponent(tableName, "table name"); err != nil {
		return "", err
	}
	return joinUnder(prefix, tableName+".parquet")
}

// ExportKey is where an archived export file lives: <prefix>/<dataset>/<file>.
func ExportKey(prefix, dataset, fileName string) (string, error) {
	if err := validatePathComponent(dataset, "dataset"); err != nil {
		return "", err
	}
	if err := validatePathComponent(fileName, "file name"); err != nil {
		return "", err
	}
	return joinUnder(prefix, path.Join(dataset, fileName))
}

// ExportPrefix is the directory holding archived exports of dataset.
func ExportPrefix(prefix, dataset string) (string, error) {
	if err := validatePathComponent(dataset, "dataset"); err != nil {
		return "", err
	}
	return joinUnder(prefix, dataset)
}

func joinUnder(prefix, rest string) (string, error) {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return rest, nil
	}
	for _, part := range strings.Split(prefix, "/") {
		if err := validatePathComponent(part, "prefix"); err != nil {
			return "", err
		}
	}
	return path.Join(prefix, rest), nil
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
