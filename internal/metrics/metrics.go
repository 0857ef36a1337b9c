package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bikehub",
			Name:      "bookings_created_total",
			Help:      "Test ride bookings created.",
		},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bikehub",
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions by target status.",
		},
		[]string{"status"},
	)

	chatbotResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bikehub",
			Name:      "chatbot_responses_total",
			Help:      "Chatbot responses by answer kind.",
		},
		[]string{"kind"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingTransitions, chatbotResponses)
	})
}

// IncBookingCreated increments the created bookings counter.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingTransition increments the counter for a target status label.
func IncBookingTransition(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

// IncChatbotResponse increments the counter for an answer kind label.
func IncChatbotResponse(kind string) {
	chatbotResponses.WithLabelValues(kind).Inc()
}
