// Package maintenance runs retention over archived exports and ask history, and checks that the
// demo dataset objects the DuckDB engine reads are present and readable.
package maintenance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/askdata/askdata/internal/history"
	"github.com/askdata/askdata/internal/storage"
)

const maxIssueSamples = 5

type Config struct {
	RetentionInterval time.Duration
	// Dataset and ExportPrefix locate archived exports: <ExportPrefix>/<Dataset>/.
	Dataset      string
	ExportPrefix string
	// ExportMaxAge and HistoryMaxAge of zero disable the respective cleanup.
	ExportMaxAge  time.Duration
	HistoryMaxAge time.Duration
	// DemoPrefix and DemoTables name the parquet objects checked by the integrity run.
	DemoPrefix string
	DemoTables []string
}

type Service struct {
	ObjectStore storage.ObjectStore
	History     history.Pruner
	Config      Config
	Logger      *slog.Logger
	Clock       func() time.Time
}

type RetentionSummary struct {
	ExportsScanned int   `json:"exports_scanned"`
	ExportsDeleted int   `json:"exports_deleted"`
	HistoryDeleted int64 `json:"history_deleted"`
	Failures       int   `json:"failures"`
}

type IntegritySummary struct {
	FilesChecked        int              `json:"files_checked"`
	MissingFiles        int              `json:"missing_files"`
	UnreadableFiles     int              `json:"unreadable_files"`
	EmptyFiles          int              `json:"empty_files"`
	OperationalFailures int              `json:"operational_failures"`
	Rows                map[string]int64 `json:"rows"`
}

// Run repeats the retention pass every RetentionInterval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.ensureDefaults()

	ticker := time.NewTicker(s.Config.RetentionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			summary, err := s.RunRetentionOnce(ctx)
			if err != nil {
				s.Logger.ErrorContext(ctx, "retention cycle failed", slog.Any("error", err), slog.Any("summary", summary))
				continue
			}
			s.Logger.InfoContext(ctx, "retention cycle completed", slog.Any("summary", summary))
		}
	}
}

// RunRetentionOnce deletes archived exports and history entries older than their max age.
func (s *Service) RunRetentionOnce(ctx context.Context) (RetentionSummary, error) {
	s.ensureDefaults()
	summary := RetentionSummary{}
	issues := newIssueLog()
	now := s.Clock().UTC()

	if s.ObjectStore != nil && s.Config.ExportMaxAge > 0 {
		prefix, err := storage.ExportPrefix(s.Config.ExportPrefix, s.Config.Dataset)
		if err != nil {
			return summary, err
		}
		objects, err := s.ObjectStore.List(ctx, prefix+"/")
		if err != nil {
			summary.Failures++
			issues.add(fmt.Sprintf("list exports: %v", err))
		}
		summary.ExportsScanned = len(objects)
		cutoff := now.Add(-s.Config.ExportMaxAge)
		for _, object := range objects {
			if object.LastModified.IsZero() || !object.LastModified.Before(cutoff) {
				continue
			}
			if err := s.ObjectStore.Delete(ctx, object.Key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
				summary.Failures++
				issues.add(fmt.Sprintf("delete export %s: %v", object.Key, err))
				continue
			}
			summary.ExportsDeleted++
		}
	}

	if s.History != nil && s.Config.HistoryMaxAge > 0 {
		deleted, err := s.History.Prune(ctx, now.Add(-s.Config.HistoryMaxAge))
		if err != nil {
			summary.Failures++
			issues.add(fmt.Sprintf("prune history: %v", err))
		}
		summary.HistoryDeleted = deleted
	}

	if summary.ExportsDeleted > 0 {
		exportsDeletedTotal.Add(float64(summary.ExportsDeleted))
	}
	if summary.HistoryDeleted > 0 {
		historyDeletedTotal.Add(float64(summary.HistoryDeleted))
	}
	if summary.Failures > 0 {
		retentionRunsTotal.WithLabelValues("failed").Inc()
		return summary, issues.err("retention")
	}
	retentionRunsTotal.WithLabelValues("completed").Inc()
	return summary, nil
}

// RunIntegrityCheckOnce downloads every demo table object and opens it as parquet.
func (s *Service) RunIntegrityCheckOnce(ctx context.Context) (IntegritySummary, error) {
	s.ensureDefaults()
	if s.ObjectStore == nil {
		return IntegritySummary{}, fmt.Errorf("object store is required")
	}
	if len(s.Config.DemoTables) == 0 {
		return IntegritySummary{}, fmt.Errorf("no dataset tables to check")
	}

	summary := IntegritySummary{Rows: map[string]int64{}}
	issues := newIssueLog()
	for _, table := range s.Config.DemoTables {
		key, err := storage.DatasetTableKey(s.Config.DemoPrefix, table)
		if err != nil {
			return summary, err
		}
		summary.FilesChecked++

		rows, err := s.countRows(ctx, key)
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			summary.MissingFiles++
			issues.add(fmt.Sprintf("missing file %s", key))
		case errors.Is(err, errUnreadable):
			summary.UnreadableFiles++
			issues.add(err.Error())
		case err != nil:
			summary.OperationalFailures++
			issues.add(fmt.Sprintf("read %s: %v", key, err))
		case rows == 0:
			summary.EmptyFiles++
			summary.Rows[table] = 0
			issues.add(fmt.Sprintf("file %s has no rows", key))
		default:
			summary.Rows[table] = rows
		}
	}

	integrityFilesCheckedTotal.Add(float64(summary.FilesChecked))
	if summary.MissingFiles > 0 {
		integrityMissingFilesTotal.Add(float64(summary.MissingFiles))
	}
	if issues.count > 0 {
		integrityRunsTotal.WithLabelValues("failed").Inc()
		return summary, issues.err("integrity check")
	}
	integrityRunsTotal.WithLabelValues("completed").Inc()
	return summary, nil
}

var errUnreadable = errors.New("unreadable parquet file")

func (s *Service) countRows(ctx context.Context, key string) (int64, error) {
	reader, err := s.ObjectStore.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w %s: %v", errUnreadable, key, err)
	}
	return file.NumRows(), nil
}

func (s *Service) ensureDefaults() {
	if s.Clock == nil {
		s.Clock = time.Now
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.DiscardHandler)
	}
	if s.Config.RetentionInterval <= 0 {
		s.Config.RetentionInterval = time.Hour
	}
	if s.Config.Dataset == "" {
		s.Config.Dataset = "askdata"
	}
}

type issueLog struct {
	count   int
	samples []string
}

func newIssueLog() *issueLog {
	return &issueLog{samples: make([]string, 0, maxIssueSamples)}
}

func (l *issueLog) add(message string) {
	l.count++
	if len(l.samples) < maxIssueSamples {
		l.samples = append(l.samples, message)
	}
}

func (l *issueLog) err(op string) error {
	if extra := l.count - len(l.samples); extra > 0 {
		return fmt.Errorf("%s found %d issue(s): %s; ... plus %d more", op, l.count, strings.Join(l.samples, "; "), extra)
	}
	return fmt.Errorf("%s found %d issue(s): %s", op, l.count, strings.Join(l.samples, "; "))
}
