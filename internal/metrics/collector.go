package metrics

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
)

// BusinessMetricsCollector periodically refreshes the business gauges from the database
type BusinessMetricsCollector struct {
	db       *gorm.DB
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	stop     chan struct{}
}

// NewBusinessMetricsCollector creates a new collector with a 60s refresh interval
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger) *BusinessMetricsCollector {
	return &BusinessMetricsCollector{
		db:       db,
		metrics:  metrics,
		logger:   logger,
		interval: 60 * time.Second,
		stop:     make(chan struct{}),
	}
}

// Start launches the collection loop in a goroutine
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop terminates the collection loop
func (c *BusinessMetricsCollector) Stop() {
	close(c.stop)
}

func (c *BusinessMetricsCollector) collect() {
	var projects, tasks int64

	if err := c.db.Model(&domain.Project{}).Count(&projects).Error; err != nil {
		c.logger.Warn("Failed to count projects for metrics", zap.Error(err))
		return
	}
	if err := c.db.Model(&domain.Task{}).Count(&tasks).Error; err != nil {
		c.logger.Warn("Failed to count tasks for metrics", zap.Error(err))
		return
	}

	c.metrics.ProjectsTotal.Set(float64(projects))
	c.metrics.TasksTotal.Set(float64(tasks))
}
