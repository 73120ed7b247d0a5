// Package service contains the service layer for the Instruments Catalog API
package service

import (
	"errors"
	"time"

	"github.com/marketbots/instrumentsapi/internal/config"
	"github.com/marketbots/instrumentsapi/pkg/utils/zaplogger"
	"github.com/robfig/cron/v3"
)

// catalogRefreshSchedule is the fixed daily refresh trigger, 07:00 in the
// process-local time zone.
const catalogRefreshSchedule = "0 7 * * *"

// CronService is the service for the cron jobs
type CronService struct {
	cfg            *config.Config
	c              *cron.Cron
	catalogService *CatalogService
}

// NewCronService creates a new CronService
func NewCronService(cfg *config.Config, catalogService *CatalogService) *CronService {
	return &CronService{
		cfg:            cfg,
		c:              cron.New(),
		catalogService: catalogService,
	}
}

// Start starts the cron service
func (cs *CronService) Start() {
	// Log the initialization to logger
	zaplogger.Info("Initializing CronService")

	// ------------------------------------------------------------
	// Add your SCHEDULED jobs here
	// ------------------------------------------------------------
	cs.addScheduledJob("Catalog REFRESH Job", cs.catalogRefreshJob, catalogRefreshSchedule) // Once at 07:00am, daily

	// ------------------------------------------------------------
	// Add your STARTUP jobs here
	// ------------------------------------------------------------
	cs.addStartupJob("Catalog REFRESH Job", cs.catalogRefreshJob, 1*time.Second)
	// ------------------------------------------------------------

	cs.c.Start()
}

// Stop stops the cron scheduler; the running job, if any, completes.
func (cs *CronService) Stop() {
	cs.c.Stop()
}

// addStartupJob adds a startup job to the cron service
func (cs *CronService) addStartupJob(name string, job func(), delay time.Duration) {
	go func() {
		time.Sleep(delay)
		zaplogger.Info("STARTED STARTUP job", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED STARTUP job", zaplogger.Fields{
			"job": name,
		})
	}()
	zaplogger.Info("QUEUED STARTUP job", zaplogger.Fields{
		"job": name,
	})
}

func (cs *CronService) addScheduledJob(name string, job func(), schedule string) {
	_, err := cs.c.AddFunc(schedule, func() {
		zaplogger.Info("STARTED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
	})
	if err != nil {
		zaplogger.Error("FAILED TO QUEUE SCHEDULED JOB", zaplogger.Fields{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info("QUEUED SCHEDULED job", zaplogger.Fields{
		"job": name,
	})
}

// catalogRefreshJob runs one catalog refresh cycle. A failed cycle is logged
// by the catalog service and leaves the previous catalog in place; a trigger
// overlapping a still-running cycle is a no-op.
func (cs *CronService) catalogRefreshJob() {
	jobName := "Catalog REFRESH Job "

	instruments, err := cs.catalogService.Refresh()
	if err != nil {
		if errors.Is(err, ErrRefreshInProgress) {
			zaplogger.Info(jobName, zaplogger.Fields{
				"skipped": "refresh already in progress",
			})
		}
		return
	}
	zaplogger.Info(jobName, zaplogger.Fields{
		"instruments": instruments,
	})
}
