package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionsActive - handles currently registered.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ircbridge_connections_active",
		Help: "Number of currently registered connections",
	})

	// LinesReceived - inbound protocol lines across all sessions.
	LinesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ircbridge_lines_received_total",
		Help: "Total number of inbound IRC lines processed",
	})

	// CommandsDispatched - outbound commands by verb.
	CommandsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ircbridge_commands_dispatched_total",
			Help: "Total number of outbound commands dispatched per verb",
		},
		[]string{"verb"},
	)

	// EventsEmitted - events published to the sink by type.
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ircbridge_events_emitted_total",
			Help: "Total number of events emitted per event type",
		},
		[]string{"type"},
	)

	// EventsDropped - events lost to slow or absent subscribers.
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ircbridge_events_dropped_total",
		Help: "Total number of events dropped before delivery",
	})

	// WebsocketClients - live event stream subscribers.
	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ircbridge_websocket_clients",
		Help: "Current number of websocket event subscribers",
	})

	// HandshakeTime - dial start to registration written.
	HandshakeTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ircbridge_handshake_seconds",
			Help:    "Time from dial start until the registration lines are written",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
	)

	// ScrollbackAppendTime - single scrollback append latency.
	ScrollbackAppendTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ircbridge_scrollback_append_seconds",
			Help:    "Time to append one message to the scrollback log",
			Buckets: prometheus.ExponentialBuckets(0.00005, 1.5, 25),
		},
	)
)
