package storage

import "testing"

func TestDatasetTableKey(t *testing.T) {
	key, err := DatasetTableKey("demo/investment/", "General_Project_Detail")
	if err != nil {
		t.Fatalf("DatasetTableKey() error = %v", err)
	}
	if key != "demo/investment/General_Project_Detail.parquet" {
		t.Fatalf("DatasetTableKey() = %q", key)
	}

	key, err = DatasetTableKey("", "ANNUAT2024")
	if err != nil || key != "ANNUAT2024.parquet" {
		t.Fatalf("DatasetTableKey() = %q, %v", key, err)
	}
}

func TestExportKey(t *testing.T) {
	key, err := ExportKey("exports", "investment", "investment_query_results_20250102_030405.csv")
	if err != nil {
		t.Fatalf("ExportKey() error = %v", err)
	}
	if key != "exports/investment/investment_query_results_20250102_030405.csv" {
		t.Fatalf("ExportKey() = %q", key)
	}
}

func TestExportPrefix(t *testing.T) {
	prefix, err := ExportPrefix("exports", "library")
	if err != nil || prefix != "exports/library" {
		t.Fatalf("ExportPrefix() = %q, %v", prefix, err)
	}
}

func TestKeysRejectInvalidComponents(t *testing.T) {
	if _, err := DatasetTableKey("demo", "../oops"); err == nil {
		t.Fatal("expected invalid table name error")
	}
	if _, err := ExportKey("../up", "investment", "a.csv"); err == nil {
		t.Fatal("expected invalid prefix error")
	}
	if _, err := ExportKey("exports", "investment", "a b.csv"); err == nil {
		t.Fatal("expected invalid file name error")
	}
}
