package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pvehvila/spotprice-aggregation/internal/spot"
)

// Scheduler periodically warms today's and tomorrow's price series so the
// first dashboard request after startup (and after cache expiry) is served
// from memory.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *spot.Service
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service *spot.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic warm-up job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: warming price series")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		now := time.Now().In(s.service.Location())
		today := spot.DayOf(now)

		if quarters := s.service.QuarterForDay(ctx, today); len(quarters) == 0 {
			log.Printf("scheduler: no quarter-hour data for %s", today)
		}
		if quarters := s.service.QuarterForDay(ctx, today.Next()); len(quarters) == 0 {
			log.Printf("scheduler: no quarter-hour data for %s yet", today.Next())
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
