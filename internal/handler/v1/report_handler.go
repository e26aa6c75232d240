package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
)

const defaultSummaryDays = 30

type ReportHandler struct {
	svc *service.ReportService
	now func() time.Time
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc, now: time.Now}
}

type createReportRequest struct {
	Type      report.Type   `json:"type" binding:"required"`
	Title     string        `json:"title" binding:"required"`
	Period    report.Period `json:"period" binding:"required"`
	StartDate *time.Time    `json:"start_date"`
	EndDate   *time.Time    `json:"end_date"`
	Format    report.Format `json:"format" binding:"required"`
}

type reportView struct {
	*report.Report
	TypeLabel        string `json:"type_label"`
	PeriodLabel      string `json:"period_label"`
	EstimatedSeconds int    `json:"estimated_seconds"`
}

func viewReport(r *report.Report) reportView {
	return reportView{
		Report:           r,
		TypeLabel:        r.Type.Label(),
		PeriodLabel:      r.Period.Label(),
		EstimatedSeconds: int(r.EstimatedGenerationTime().Seconds()),
	}
}

func (h *ReportHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Request)
	rg.GET("", h.List)
	rg.GET("/summary", h.Summary)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/retry", h.Retry)
	rg.GET("/:id/download", h.Download)
}

func (h *ReportHandler) Request(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req createReportRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &report.CreateReportCommand{
		Type:   req.Type,
		Title:  req.Title,
		Period: req.Period,
		Format: req.Format,
	}
	if req.StartDate != nil {
		cmd.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		cmd.EndDate = *req.EndDate
	}

	r, err := h.svc.RequestReport(c.Request.Context(), cmd, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, APIResponse[any]{Data: viewReport(r), Message: "report queued"})
}

func (h *ReportHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	generatedBy, ok := parseQueryUUID(c, "generated_by")
	if !ok {
		return
	}

	q := &report.ListReportsQuery{
		GeneratedBy: generatedBy,
		Page:        parseQueryInt(c, "page", 1),
		PageSize:    parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("type"); raw != "" {
		t := report.Type(raw)
		if !t.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid type")
			return
		}
		q.Type = &t
	}
	if raw := c.Query("status"); raw != "" {
		st := report.Status(raw)
		q.Status = &st
	}

	paged, err := h.svc.ListReports(c.Request.Context(), q, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

func (h *ReportHandler) Summary(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	from, ok := parseQueryDate(c, "from")
	if !ok {
		return
	}
	to, ok := parseQueryDate(c, "to")
	if !ok {
		return
	}

	end := h.now()
	if to != nil {
		end = to.Add(24 * time.Hour)
	}
	start := end.AddDate(0, 0, -defaultSummaryDays)
	if from != nil {
		start = *from
	}
	if end.Before(start) {
		respondError(c, http.StatusBadRequest, "from must not be after to")
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), start, end, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, summary)
}

func (h *ReportHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	r, err := h.svc.GetReport(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewReport(r))
}

func (h *ReportHandler) Retry(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	r, err := h.svc.RetryReport(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, APIResponse[any]{Data: viewReport(r), Message: "report queued"})
}

func (h *ReportHandler) Download(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.DownloadCSV(c.Request.Context(), id, &buf, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.csv"`, id))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
