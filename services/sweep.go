package services

import (
	"log"
	"time"

	"taskquest/database"
	"taskquest/gamification"
)

// SweepService runs the daily streak-reset sweep in the background. An
// external cron hitting the ops endpoint is the primary trigger; this
// built-in scheduler covers deployments without one. Running the sweep
// twice on the same day is harmless — already-reset users no longer match.
type SweepService struct {
	stop chan struct{}
}

var sweepService *SweepService

// InitSweepService initializes the singleton sweep service.
func InitSweepService() {
	sweepService = &SweepService{stop: make(chan struct{})}
}

// GetSweepService returns the initialized sweep service.
func GetSweepService() *SweepService {
	return sweepService
}

// Start launches the background sweep loop.
func (s *SweepService) Start() {
	go s.run()
}

// Stop stops the background sweep loop.
func (s *SweepService) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

func (s *SweepService) run() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastRun time.Time

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			now = now.UTC()
			// Once per calendar day, shortly after midnight.
			if now.YearDay() == lastRun.YearDay() && now.Year() == lastRun.Year() {
				continue
			}

			engine := gamification.NewEngine(database.GetDB())
			reset, err := engine.RunDailyStreakSweep(now)
			if err != nil {
				log.Printf("Daily streak sweep failed: %v", err)
				continue
			}

			lastRun = now
			log.Printf("🧹 Daily streak sweep: %d users reset", reset)
		}
	}
}
