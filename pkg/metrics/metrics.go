package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	audioArchiver = "audio_archiver"

	// Job metrics
	jobsSubmittedTotal = "jobs_submitted_total"
	jobsFinishedTotal  = "jobs_finished_total"

	// Video metrics
	videosProcessedTotal = "videos_processed_total"
	uploadsTotal         = "uploads_total"

	// Labels
	jobKindLabel  = "kind"
	jobStateLabel = "state"
	outcomeLabel  = "outcome"
)

var jobsSubmittedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: audioArchiver,
		Name:      jobsSubmittedTotal,
		Help:      "number of submitted jobs partitioned by kind (video or channel)",
	},
	[]string{jobKindLabel},
)

var jobsFinishedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: audioArchiver,
		Name:      jobsFinishedTotal,
		Help:      "number of finished jobs partitioned by terminal state",
	},
	[]string{jobStateLabel},
)

var videosProcessedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: audioArchiver,
		Name:      videosProcessedTotal,
		Help:      "number of processed videos partitioned by outcome",
	},
	[]string{outcomeLabel},
)

var uploadsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: audioArchiver,
		Name:      uploadsTotal,
		Help:      "number of object store uploads partitioned by outcome",
	},
	[]string{outcomeLabel},
)

func IncreaseJobsSubmittedTotalMetric(kind string) {
	jobsSubmittedTotalMetric.With(prometheus.Labels{jobKindLabel: kind}).Inc()
}

func IncreaseJobsFinishedTotalMetric(state string) {
	jobsFinishedTotalMetric.With(prometheus.Labels{jobStateLabel: state}).Inc()
}

func IncreaseVideosProcessedTotalMetric(outcome string) {
	videosProcessedTotalMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func IncreaseUploadsTotalMetric(outcome string) {
	uploadsTotalMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsSubmittedTotalMetric)
	prometheus.MustRegister(jobsFinishedTotalMetric)
	prometheus.MustRegister(videosProcessedTotalMetric)
	prometheus.MustRegister(uploadsTotalMetric)
}
