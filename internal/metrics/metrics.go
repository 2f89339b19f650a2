package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "featuresgym_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_membership_checkouts_total",
			Help: "Total number of membership checkouts started",
		},
		[]string{"duration"},
	)

	ActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_membership_activations_total",
			Help: "Total number of membership activations",
		},
		[]string{"result"},
	)

	GatewayOrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_gateway_orders_total",
			Help: "Total number of payment gateway order requests",
		},
		[]string{"result"},
	)

	SignatureFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "featuresgym_signature_failures_total",
			Help: "Total number of rejected gateway callback signatures",
		},
	)

	CouponRedemptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "featuresgym_coupon_redemptions_total",
			Help: "Total number of coupon redemptions",
		},
	)

	VisitBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_visit_bookings_total",
			Help: "Total number of visit bookings",
		},
		[]string{"status"},
	)

	FeeChargesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_fee_charges_total",
			Help: "Total number of cancellation/reschedule fee charges",
		},
		[]string{"kind"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "featuresgym_notification_queue_length",
			Help: "Current length of the notification email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckout(duration string) {
	CheckoutsTotal.WithLabelValues(duration).Inc()
}

func RecordActivation(result string) {
	ActivationsTotal.WithLabelValues(result).Inc()
}

func RecordGatewayOrder(result string) {
	GatewayOrdersTotal.WithLabelValues(result).Inc()
}

func RecordSignatureFailure() {
	SignatureFailuresTotal.Inc()
}

func RecordCouponRedemption() {
	CouponRedemptionsTotal.Inc()
}

func RecordVisitBooking(status string) {
	VisitBookingsTotal.WithLabelValues(status).Inc()
}

func RecordFeeCharge(kind string) {
	FeeChargesTotal.WithLabelValues(kind).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
