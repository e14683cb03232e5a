package metrics

import "time"

// RecordDBQuery records one database query
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	if table == "" {
		table = "unknown"
	}
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}
