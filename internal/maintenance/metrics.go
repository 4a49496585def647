package maintenance

import "github.com/prometheus/client_golang/prometheus"

var (
	retentionRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_retention_runs_total",
			Help: "Total number of retention runs by status.",
		},
		[]string{"status"},
	)
	exportsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askdata_retention_exports_deleted_total",
			Help: "Total number of archived exports deleted by retention runs.",
		},
	)
	historyDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askdata_retention_history_deleted_total",
			Help: "Total number of ask history entries deleted by retention runs.",
		},
	)
	integrityRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_integrity_runs_total",
			Help: "Total number of dataset integrity check runs by status.",
		},
		[]string{"status"},
	)
	integrityFilesCheckedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askdata_integrity_files_checked_total",
			Help: "Total number of dataset files checked by integrity validation.",
		},
	)
	integrityMissingFilesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askdata_integrity_missing_files_total",
			Help: "Total number of missing dataset files detected by integrity validation.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		retentionRunsTotal,
		exportsDeletedTotal,
		historyDeletedTotal,
		integrityRunsTotal,
		integrityFilesCheckedTotal,
		integrityMissingFilesTotal,
	)
}
