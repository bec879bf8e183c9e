// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PastesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pasty_pastes_created_total",
		Help: "no. of pastes created",
	})
	FilesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pasty_files_written_total",
		Help: "no. of paste files written to the object store",
	})
	SearchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pasty_search_queries_total",
		Help: "no. of search queries served",
	})
	StaleDocsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pasty_stale_search_docs_deleted_total",
		Help: "no. of dangling search documents scheduled for deletion",
	})
	StarsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pasty_stars_created_total",
		Help: "no. of stars created",
	})
	ResavedPastes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pasty_resaved_pastes_total",
		Help: "no. of paste records rewritten by the re-save task",
	})
)
