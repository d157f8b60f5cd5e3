package archive

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatvault",
		Name:      "jobs_started_total",
		Help:      "Archival jobs that passed the duplicate check.",
	})

	jobsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatvault",
		Name:      "jobs_completed_total",
		Help:      "Archival jobs that wrote a manifest.",
	})

	jobsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatvault",
		Name:      "jobs_cancelled_total",
		Help:      "Archival jobs rolled back on user request.",
	})

	jobsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatvault",
		Name:      "jobs_failed_total",
		Help:      "Archival jobs aborted by a fatal error.",
	})

	messagesArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatvault",
		Name:      "messages_archived_total",
		Help:      "Messages recorded across all jobs.",
	})

	assetsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatvault",
		Name:      "assets_fetched_total",
		Help:      "Avatars and attachments downloaded successfully.",
	})
)
