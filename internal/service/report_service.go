package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/inventory"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService persists report requests and generates them on a background worker.
type ReportService struct {
	repo            report.Repository
	patientRepo     patient.Repository
	inventoryRepo   inventory.Repository
	appointmentRepo appointment.Repository
	auditSvc        *AuditService
	metrics         *metrics.Collector
	log             *zap.Logger
	timeout         time.Duration
	now             func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan uuid.UUID
	wg     sync.WaitGroup
}

func NewReportService(
	repo report.Repository,
	patientRepo patient.Repository,
	inventoryRepo inventory.Repository,
	appointmentRepo appointment.Repository,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
	queueSize int,
	timeout time.Duration,
) *ReportService {
	return &ReportService{
		repo:            repo,
		patientRepo:     patientRepo,
		inventoryRepo:   inventoryRepo,
		appointmentRepo: appointmentRepo,
		auditSvc:        auditSvc,
		metrics:         m,
		log:             log,
		timeout:         timeout,
		now:             time.Now,
		queue:           make(chan uuid.UUID, queueSize),
	}
}

// Start launches the generation worker. It stops when ctx is cancelled or Shutdown is called.
// Before taking new work the worker picks up reports left behind by a previous process.
func (s *ReportService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.recoverPending(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case id, ok := <-s.queue:
				if !ok {
					return
				}
				s.generate(ctx, id)
			}
		}
	}()
}

// Shutdown stops accepting work and waits for the queued reports to finish.
func (s *ReportService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReportService) RequestReport(ctx context.Context, cmd *report.CreateReportCommand, actor Actor) (*report.Report, error) {
	if !actor.Role.CanWrite() {
		return nil, ErrForbidden
	}
	cmd.GeneratedBy = actor.UserID

	now := s.now()
	if cmd.StartDate.IsZero() && cmd.EndDate.IsZero() && cmd.Period.IsValid() {
		cmd.StartDate, cmd.EndDate = cmd.Period.DefaultRange(now)
	}
	if err := validationError(report.Validate(cmd, now)); err != nil {
		return nil, err
	}

	r := report.New(cmd)
	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error("failed to create report", zap.Error(err))
		return nil, fmt.Errorf("creating report: %w", err)
	}
	s.metrics.ReportsTotal.WithLabelValues(string(r.Status)).Inc()

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionCreate,
		ResourceType: "report",
		ResourceID:   r.ID.String(),
	})

	s.enqueue(ctx, r)
	return r, nil
}

// enqueue hands r to the worker. A full queue fails the report so it can be retried.
func (s *ReportService) enqueue(ctx context.Context, r *report.Report) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.closed {
		select {
		case s.queue <- r.ID:
			return
		default:
		}
	}

	s.log.Warn("report queue unavailable", zap.String("report_id", r.ID.String()))
	if err := r.Fail("report queue is full"); err == nil {
		if err := s.repo.Update(ctx, r); err != nil {
			s.log.Error("failed to mark report as failed", zap.Error(err))
		}
		s.metrics.ReportsTotal.WithLabelValues(string(r.Status)).Inc()
	}
}

// recoverPending fails PROCESSING reports untouched for longer than the generation
// timeout and generates every PENDING report.
func (s *ReportService) recoverPending(ctx context.Context) {
	stuck, err := s.repo.ListByStatus(ctx, report.StatusProcessing)
	if err != nil {
		s.log.Error("failed to list processing reports", zap.Error(err))
	}
	cutoff := s.now().Add(-s.timeout)
	for _, r := range stuck {
		if r.UpdatedAt.After(cutoff) {
			continue
		}
		if err := r.Fail("report generation was interrupted"); err != nil {
			continue
		}
		if err := s.repo.Update(ctx, r); err != nil {
			s.log.Error("failed to mark report as failed", zap.String("report_id", r.ID.String()), zap.Error(err))
			continue
		}
		s.metrics.ReportsTotal.WithLabelValues(string(r.Status)).Inc()
		s.log.Warn("interrupted report marked as failed", zap.String("report_id", r.ID.String()))
	}

	pending, err := s.repo.ListByStatus(ctx, report.StatusPending)
	if err != nil {
		s.log.Error("failed to list pending reports", zap.Error(err))
		return
	}
	if len(pending) > 0 {
		s.log.Info("resuming pending reports", zap.Int("count", len(pending)))
	}
	for _, r := range pending {
		if ctx.Err() != nil {
			return
		}
		s.generate(ctx, r.ID)
	}
}

func (s *ReportService) generate(parent context.Context, id uuid.UUID) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	log := s.log.With(zap.String("report_id", id.String()))

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error("failed to load report", zap.Error(err))
		return
	}
	if err := r.StartProcessing(); err != nil {
		log.Warn("skipping report", zap.String("status", string(r.Status)))
		return
	}
	if err := s.repo.Update(ctx, r); err != nil {
		log.Error("failed to mark report as processing", zap.Error(err))
		return
	}

	start := s.now()
	summary, err := s.summarize(ctx, r.Type, r.StartDate, r.EndDate)
	if err != nil {
		log.Error("report generation failed", zap.Error(err))
		_ = r.Fail(err.Error())
	} else {
		_ = r.Complete(downloadPath(r.ID), summary, s.now())
	}

	// the generation context may have expired
	if err := s.repo.Update(context.WithoutCancel(ctx), r); err != nil {
		log.Error("failed to save report", zap.Error(err))
		return
	}
	s.metrics.ReportsTotal.WithLabelValues(string(r.Status)).Inc()

	log.Info("report generated",
		zap.String("type", string(r.Type)),
		zap.String("status", string(r.Status)),
		zap.Duration("took", s.now().Sub(start)),
		zap.Duration("estimated", r.EstimatedGenerationTime()),
	)
}

func downloadPath(id uuid.UUID) string {
	return "/api/v1/reports/" + id.String() + "/download"
}

// Summary computes every indicator for [from, to) without persisting a report.
func (s *ReportService) Summary(ctx context.Context, from, to time.Time, actor Actor) (*report.Summary, error) {
	if !actor.Role.CanWrite() {
		return nil, ErrForbidden
	}
	if from.After(to) {
		return nil, &ValidationError{Fields: []string{"from must be before to"}}
	}

	out := &report.Summary{}
	for _, t := range []report.Type{report.TypePatients, report.TypeInventory, report.TypeFinancial, report.TypeAppointments} {
		part, err := s.summarize(ctx, t, from, to)
		if err != nil {
			return nil, err
		}
		merge(out, part)
	}
	return out, nil
}

func (s *ReportService) summarize(ctx context.Context, t report.Type, from, to time.Time) (*report.Summary, error) {
	out := &report.Summary{}

	switch t {
	case report.TypePatients:
		st, err := s.patientRepo.Stats(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("patient stats: %w", err)
		}
		out.TotalPatients = st.Total
		out.ActivePatients = st.Active
		out.DischargedPatients = st.Inactive
		out.NewPatients = st.New

	case report.TypeInventory:
		items, err := s.inventoryRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing items: %w", err)
		}
		for _, it := range items {
			out.InventoryValue += it.TotalValue()
		}
		low, err := s.inventoryRepo.ListLowStock(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing low stock: %w", err)
		}
		out.LowStockItems = int64(len(low))

	case report.TypeFinancial:
		in, outTotal, err := s.inventoryRepo.MovementTotals(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("movement totals: %w", err)
		}
		out.TotalExpenses = in
		out.TotalRevenue = outTotal

	case report.TypeAppointments:
		counts, err := s.appointmentRepo.CountByStatusBetween(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("counting appointments: %w", err)
		}
		out.Appointments = make(map[string]int64, len(counts))
		for st, n := range counts {
			out.Appointments[string(st)] = n
		}

	default:
		return nil, report.ErrInvalidType
	}
	return out, nil
}

func merge(dst, src *report.Summary) {
	dst.TotalPatients += src.TotalPatients
	dst.NewPatients += src.NewPatients
	dst.DischargedPatients += src.DischargedPatients
	dst.ActivePatients += src.ActivePatients
	dst.TotalRevenue += src.TotalRevenue
	dst.TotalExpenses += src.TotalExpenses
	dst.InventoryValue += src.InventoryValue
	dst.LowStockItems += src.LowStockItems
	if src.Appointments != nil {
		dst.Appointments = src.Appointments
	}
}

func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID, actor Actor) (*report.Report, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && r.GeneratedBy != actor.UserID {
		return nil, ErrForbidden
	}
	return r, nil
}

// ListReports shows non-admins only the reports they requested.
func (s *ReportService) ListReports(ctx context.Context, q *report.ListReportsQuery, actor Actor) (*report.PagedReports, error) {
	if !actor.Role.CanWrite() {
		return nil, ErrForbidden
	}
	if !actor.IsAdmin() {
		q.GeneratedBy = &actor.UserID
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

func (s *ReportService) RetryReport(ctx context.Context, id uuid.UUID, actor Actor) (*report.Report, error) {
	r, err := s.GetReport(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := r.CanRegenerate(); err != nil {
		return nil, err
	}
	if err := r.Retry(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("updating report: %w", err)
	}

	s.auditSvc.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       domain.ActionUpdate,
		ResourceType: "report",
		ResourceID:   r.ID.String(),
		Changes:      `{"status":"PENDING"}`,
	})

	s.enqueue(ctx, r)
	return r, nil
}

// DownloadCSV writes a completed CSV report to w.
func (s *ReportService) DownloadCSV(ctx context.Context, id uuid.UUID, w io.Writer, actor Actor) error {
	r, err := s.GetReport(ctx, id, actor)
	if err != nil {
		return err
	}
	return report.WriteCSV(w, r)
}
