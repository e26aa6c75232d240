package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 15, 30, 0, 0, time.UTC)

func validCommand() *CreateReportCommand {
	return &CreateReportCommand{
		Type:        TypePatients,
		Title:       "Pacientes de maio",
		Period:      PeriodMonthly,
		StartDate:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		Format:      FormatCSV,
		GeneratedBy: uuid.New(),
	}
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(validCommand(), now))

	cmd := validCommand()
	cmd.Title = " "
	cmd.StartDate = now.AddDate(-6, 0, 0)
	cmd.EndDate = now.Add(time.Hour)
	cmd.Format = "DOCX"

	assert.Equal(t, []string{
		"title is required",
		"format is invalid",
		"end_date cannot be in the future",
		"date range too long: maximum of 5 years",
	}, Validate(cmd, now))

	cmd = validCommand()
	cmd.StartDate, cmd.EndDate = cmd.EndDate, cmd.StartDate
	assert.Equal(t, []string{"start_date must be before end_date"}, Validate(cmd, now))
}

func TestLifecycle(t *testing.T) {
	r := New(validCommand())
	assert.Equal(t, StatusPending, r.Status)

	assert.ErrorIs(t, r.Complete("/x", nil, now), ErrNotProcessing)
	assert.ErrorIs(t, r.Retry(), ErrNotFailed)

	require.NoError(t, r.StartProcessing())
	assert.ErrorIs(t, r.CanRegenerate(), ErrProcessing)
	assert.ErrorIs(t, r.StartProcessing(), ErrNotPending)

	require.NoError(t, r.Fail("database unavailable"))
	assert.Equal(t, "database unavailable", r.ErrorMessage)
	assert.ErrorIs(t, r.Fail("again"), ErrCannotFail)

	require.NoError(t, r.Retry())
	assert.Equal(t, StatusPending, r.Status)
	assert.Empty(t, r.ErrorMessage)

	require.NoError(t, r.StartProcessing())
	require.NoError(t, r.Complete("/api/v1/reports/"+r.ID.String()+"/download", &Summary{TotalPatients: 3}, now))
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, &now, r.CompletedAt)
	assert.NoError(t, r.CanRegenerate())
}

func TestDefaultRange(t *testing.T) {
	start, end := PeriodDaily.DefaultRange(now)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)

	start, _ = PeriodWeekly.DefaultRange(now)
	assert.Equal(t, now.AddDate(0, 0, -7), start)

	start, _ = PeriodCustom.DefaultRange(now)
	assert.Equal(t, now.AddDate(0, 0, -30), start)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Relatório de Estoque", TypeInventory.Label())
	assert.Equal(t, "Mensal", PeriodMonthly.Label())
	assert.Equal(t, "OTHER", Type("OTHER").Label())
}

func TestEstimatedGenerationTime(t *testing.T) {
	r := &Report{
		Type:      TypeFinancial,
		StartDate: now.AddDate(0, 0, -90),
		EndDate:   now,
	}
	assert.Equal(t, 13*time.Second, r.EstimatedGenerationTime())

	r.Type = "OTHER"
	r.StartDate = now.AddDate(0, 0, -10)
	assert.Equal(t, 5*time.Second, r.EstimatedGenerationTime())
}

func TestWriteCSV(t *testing.T) {
	r := New(validCommand())

	var buf bytes.Buffer
	assert.ErrorIs(t, WriteCSV(&buf, r), ErrNotReady)

	require.NoError(t, r.StartProcessing())
	require.NoError(t, r.Complete("/download", &Summary{
		TotalPatients: 10, ActivePatients: 8, NewPatients: 2, DischargedPatients: 2,
	}, now))

	require.NoError(t, WriteCSV(&buf, r))
	assert.Equal(t, "report,Relatório de Pacientes\n"+
		"title,Pacientes de maio\n"+
		"period,Mensal\n"+
		"start_date,2024-05-01\n"+
		"end_date,2024-05-31\n"+
		"metric,value\n"+
		"total_patients,10\n"+
		"active_patients,8\n"+
		"new_patients,2\n"+
		"discharged_patients,2\n", buf.String())

	r.Format = FormatPDF
	assert.ErrorIs(t, WriteCSV(&bytes.Buffer{}, r), ErrUnsupportedFormat)
}

func TestWriteCSV_AppointmentsSortedByStatus(t *testing.T) {
	r := New(validCommand())
	r.Type = TypeAppointments
	r.Status = StatusCompleted
	r.Data = &Summary{Appointments: map[string]int64{"scheduled": 4, "cancelled": 1, "completed": 7}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r))
	assert.Contains(t, buf.String(), "metric,value\nappointments_cancelled,1\nappointments_completed,7\nappointments_scheduled,4\n")
}
