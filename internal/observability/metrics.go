package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthEvents counts registrations and logins by outcome.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_auth_events_total",
		Help: "Total number of authentication events by event and result",
	}, []string{"event", "result"})

	// PostsCreated counts created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreated counts created comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_comments_created_total",
		Help: "Total number of comments created",
	})

	// CascadeDeletedComments counts comments removed together with their post.
	CascadeDeletedComments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_cascade_deleted_comments_total",
		Help: "Total number of comments deleted by post cascades",
	})

	// StoreQueryLatency records store latency by backend and operation.
	StoreQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quill_store_query_latency_seconds",
		Help:    "Store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})
)

// Auth event labels.
const (
	EventRegister = "register"
	EventLogin    = "login"
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// RecordAuth increments the auth event counter.
func RecordAuth(event string, ok bool) {
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}

// TrackQuery returns a func that observes the elapsed time when called.
//
//	defer observability.TrackQuery("gorm", "posts.list_published")()
func TrackQuery(backend, operation string) func() {
	start := time.Now()
	return func() {
		StoreQueryLatency.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
	}
}
