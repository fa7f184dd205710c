package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SweepSchedule расписание очистки просроченных записей в памяти
const SweepSchedule = "@every 5m"

// Sweepable хранилище, умеющее удалять просроченные записи
type Sweepable interface {
	Sweep() int
}

// Sweeper периодически очищает in-memory сессии и окна ограничителя
type Sweeper struct {
	cron    *cron.Cron
	targets map[string]Sweepable
}

func NewSweeper(targets map[string]Sweepable) *Sweeper {
	return &Sweeper{
		cron:    cron.New(),
		targets: targets,
	}
}

func (s *Sweeper) Start(schedule string) error {
	if len(s.targets) == 0 {
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.cron.Start()

	slog.Info("sweeper started", slog.String("schedule", schedule))

	return nil
}

// Stop останавливает планировщик и ждёт завершения текущего прохода
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) RunOnce() {
	for name, target := range s.targets {
		if removed := target.Sweep(); removed > 0 {
			slog.Debug("expired entries swept", slog.String("store", name), slog.Int("removed", removed))
		}
	}
}
