package metrics

import "time"

// RecordExternalAPICall records one call to a downstream service
func (m *Metrics) RecordExternalAPICall(endpoint, method string, statusCode int, duration time.Duration, err error) {
	m.ExternalAPIRequestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())

	errorType := ""
	switch {
	case err != nil:
		errorType = "transport"
	case statusCode >= 500:
		errorType = "server"
	case statusCode >= 400 && statusCode != 404:
		errorType = "client"
	}
	if errorType != "" {
		m.ExternalAPIErrors.WithLabelValues(endpoint, errorType).Inc()
	}
}
