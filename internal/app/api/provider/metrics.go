package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for transcription operations, labeled by provider.
var (
	transcriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisper_transcriptions_total",
			Help: "Total number of transcription requests by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	transcriptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whisper_transcription_duration_seconds",
			Help:    "Wall-clock time spent transcribing, by provider.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"provider"},
	)

	audioSecondsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisper_audio_seconds_processed_total",
			Help: "Total seconds of audio successfully transcribed, by provider.",
		},
		[]string{"provider"},
	)
)

// RecordSuccess records a successful transcription
func RecordSuccess(providerName string, latencySec, audioLengthSec float64) {
	transcriptionsTotal.WithLabelValues(providerName, "success").Inc()
	transcriptionDuration.WithLabelValues(providerName).Observe(latencySec)
	if audioLengthSec > 0 {
		audioSecondsProcessed.WithLabelValues(providerName).Add(audioLengthSec)
	}
}

// RecordFailure records a failed transcription
func RecordFailure(providerName string, latencySec float64) {
	transcriptionsTotal.WithLabelValues(providerName, "failure").Inc()
	transcriptionDuration.WithLabelValues(providerName).Observe(latencySec)
}
