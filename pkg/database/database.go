package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/insurer"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/inventory"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/provider"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:      NewGormLogger(log, cfg.SlowQueryThreshold),
		PrepareStmt: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"auth", "audit", "clinical", "network", "stock", "reporting"}
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&patient.Patient{},
		&medication.Medication{},
		&appointment.Appointment{},
		&insurer.Insurer{},
		&provider.Provider{},
		&inventory.Item{},
		&inventory.Movement{},
		&report.Report{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db, log); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB, log *zap.Logger) error {
	// pg_trgm needs superuser on some managed databases; name search degrades to a seq scan without it.
	trgm := true
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error; err != nil {
		log.Warn("pg_trgm unavailable, skipping trigram indexes", zap.Error(err))
		trgm = false
	}

	indexes := []struct {
		name  string
		query string
		trgm  bool
	}{
		{
			name:  "idx_patients_name_trgm",
			query: `CREATE INDEX IF NOT EXISTS idx_patients_name_trgm ON clinical.patients USING gin (full_name gin_trgm_ops) WHERE deleted_at IS NULL`,
			trgm:  true,
		},
		{
			name:  "idx_medications_patient_active",
			query: `CREATE INDEX IF NOT EXISTS idx_medications_patient_active ON clinical.medications (patient_id) WHERE is_active`,
		},
		{
			name:  "idx_appointments_reminders",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_reminders ON clinical.appointments (scheduled_at) WHERE status = 'scheduled' AND NOT reminder_sent`,
		},
		{
			name:  "idx_appointments_time_range",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_time_range ON clinical.appointments (scheduled_at, status)`,
		},
		{
			name:  "idx_items_low_stock",
			query: `CREATE INDEX IF NOT EXISTS idx_items_low_stock ON stock.items (quantity, min_quantity) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_movements_item_created",
			query: `CREATE INDEX IF NOT EXISTS idx_movements_item_created ON stock.movements (item_id, created_at DESC)`,
		},
	}

	var errs []error
	for _, idx := range indexes {
		if idx.trgm && !trgm {
			continue
		}
		if err := db.Exec(idx.query).Error; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", idx.name, err))
		}
	}

	return errors.Join(errs...)
}

// RegisterMetrics times every GORM operation into the collector's DB histogram.
func RegisterMetrics(db *gorm.DB, m *metrics.Collector) error {
	const startKey = "cuidarplus:query_start"

	before := func(tx *gorm.DB) {
		tx.InstanceSet(startKey, time.Now())
	}
	after := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startKey)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			m.DBQueryDuration.WithLabelValues(op, table).Observe(time.Since(v.(time.Time)).Seconds())
		}
	}

	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("metrics:create:before", before),
		cb.Create().After("gorm:create").Register("metrics:create:after", after("create")),
		cb.Query().Before("gorm:query").Register("metrics:query:before", before),
		cb.Query().After("gorm:query").Register("metrics:query:after", after("query")),
		cb.Update().Before("gorm:update").Register("metrics:update:before", before),
		cb.Update().After("gorm:update").Register("metrics:update:after", after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:delete:before", before),
		cb.Delete().After("gorm:delete").Register("metrics:delete:after", after("delete")),
		cb.Row().Before("gorm:row").Register("metrics:row:before", before),
		cb.Row().After("gorm:row").Register("metrics:row:after", after("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:raw:before", before),
		cb.Raw().After("gorm:raw").Register("metrics:raw:after", after("raw")),
	}
	return errors.Join(errs...)
}
