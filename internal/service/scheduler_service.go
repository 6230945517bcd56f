package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ReportSchedule says when the reminder report runs. DailyAt (HH:MM) takes
// precedence over Interval; with neither set the report is off.
type ReportSchedule struct {
	Interval time.Duration
	DailyAt  string
}

// SchedulerService runs background jobs on cron schedules.
type SchedulerService struct {
	cron *cron.Cron
}

// NewSchedulerService builds a scheduler in loc. A panicking job is logged and
// recovered, and a job still running when its next tick arrives is skipped.
func NewSchedulerService(loc *time.Location, log *slog.Logger) *SchedulerService {
	if log == nil {
		log = slog.Default()
	}
	cronLog := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelError))
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLog), cron.Recover(cronLog)),
		),
	}
}

// ScheduleReports registers job according to sched. It reports whether a job
// was registered.
func (s *SchedulerService) ScheduleReports(sched ReportSchedule, job func()) (bool, error) {
	var err error
	switch {
	case sched.DailyAt != "":
		_, err = s.ScheduleDaily(sched.DailyAt, job)
	case sched.Interval > 0:
		_, err = s.ScheduleInterval(sched.Interval, job)
	default:
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("schedule report: %w", err)
	}
	return true, nil
}

// ScheduleDaily runs job every day at hhmm (24h clock).
func (s *SchedulerService) ScheduleDaily(hhmm string, job func()) (cron.EntryID, error) {
	spec, err := dailySpec(hhmm)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// ScheduleInterval runs job every interval, rounded to whole seconds.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", interval)
	}
	return s.cron.Schedule(cron.Every(interval), cron.FuncJob(job)), nil
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	<-s.cron.Stop().Done()
}

func (s *SchedulerService) Entries() int {
	return len(s.cron.Entries())
}

// dailySpec turns HH:MM into a six-field cron spec.
func dailySpec(hhmm string) (string, error) {
	at, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	return fmt.Sprintf("0 %d %d * * *", at.Minute(), at.Hour()), nil
}
