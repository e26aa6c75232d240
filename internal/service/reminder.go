package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"go.uber.org/zap"
)

// Notifier delivers an appointment reminder to whoever looks after the patient.
type Notifier interface {
	NotifyAppointment(ctx context.Context, a *appointment.Appointment) error
}

// LogNotifier writes reminders to the log instead of sending them.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("reminders")}
}

func (n *LogNotifier) NotifyAppointment(_ context.Context, a *appointment.Appointment) error {
	n.log.Info("appointment reminder",
		zap.String("appointment_id", a.ID.String()),
		zap.String("patient_id", a.PatientID.String()),
		zap.String("title", a.Title),
		zap.Time("scheduled_at", a.ScheduledAt),
		zap.String("location", a.Location),
	)
	return nil
}

type ReminderScheduler struct {
	repo     appointment.Repository
	notifier Notifier
	metrics  *metrics.Collector
	log      *zap.Logger
	interval time.Duration
	window   time.Duration
	now      func() time.Time
}

func NewReminderScheduler(
	repo appointment.Repository,
	notifier Notifier,
	m *metrics.Collector,
	log *zap.Logger,
	interval, window time.Duration,
) *ReminderScheduler {
	return &ReminderScheduler{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		log:      log,
		interval: interval,
		window:   window,
		now:      time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (r *ReminderScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			r.log.Error("reminder sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce notifies every due appointment and returns how many reminders went out.
// A failed notification leaves the appointment unmarked so the next sweep retries it.
func (r *ReminderScheduler) RunOnce(ctx context.Context) (int, error) {
	now := r.now()
	due, err := r.repo.DueForReminder(ctx, now, now.Add(r.window))
	if err != nil {
		return 0, fmt.Errorf("loading due appointments: %w", err)
	}

	sent := 0
	for _, a := range due {
		if !a.NeedsReminder(now, r.window) {
			continue
		}
		if err := r.notifier.NotifyAppointment(ctx, a); err != nil {
			r.log.Warn("reminder delivery failed",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := r.repo.MarkReminderSent(ctx, a.ID); err != nil {
			r.log.Error("failed to mark reminder sent",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
			continue
		}
		a.MarkReminderSent()
		r.metrics.RemindersSentTotal.Inc()
		sent++
	}

	if sent > 0 {
		r.log.Info("appointment reminders sent", zap.Int("count", sent))
	}
	return sent, nil
}
