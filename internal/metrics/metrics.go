// Package metrics registers the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersHandedOff = promauto.NewCounter(prometheus.CounterOpts{
		Name: "acai_orders_handed_off_total",
		Help: "Orders turned into a WhatsApp hand-off link.",
	})

	OrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "acai_order_value_brl",
		Help:    "Order totals including delivery fee.",
		Buckets: []float64{10, 20, 30, 40, 60, 80, 120, 200},
	})

	DeliveryQuotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acai_delivery_quotes_total",
		Help: "Delivery quotes by outcome.",
	}, []string{"result"})

	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acai_image_uploads_total",
		Help: "Image uploads by outcome.",
	}, []string{"result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acai_http_requests_total",
		Help: "HTTP requests by method and status class.",
	}, []string{"method", "status"})
)
