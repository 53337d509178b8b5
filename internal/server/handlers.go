package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/credence/internal/export"
	"github.com/ppiankov/credence/internal/history"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/render"
	"github.com/ppiankov/credence/internal/request"
	"github.com/ppiankov/credence/internal/session"
)

// AnalyzeRequest is the body of POST /api/analyses
type AnalyzeRequest struct {
	Type string `json:"type"`
	request.Fields
}

// AnalysisResponse pairs an analysis with its rendered view
type AnalysisResponse struct {
	Analysis model.Analysis `json:"analysis"`
	View     render.View    `json:"view"`
}

// ProgressEvent is one SSE progress message
type ProgressEvent struct {
	Stage    string  `json:"stage"`
	Fraction float64 `json:"fraction"`
}

type FeedbackRequest struct {
	Kind string `json:"kind"`
}

type Handler struct {
	sess *session.Session
}

func NewHandler(sess *session.Session) *Handler {
	return &Handler{sess: sess}
}

func newAnalysisResponse(a model.Analysis) AnalysisResponse {
	return AnalysisResponse{Analysis: a, View: render.NewView(a.Result)}
}

// POST /api/analyses
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "BadRequest", fmt.Errorf("decode body: %w", err))
		return
	}

	if c.Query("stream") == "true" {
		h.analyzeStream(c, req)
		return
	}

	a, err := h.sess.Analyze(c.Request.Context(), req.Type, req.Fields, nil)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAnalysisResponse(*a))
}

// analyzeStream emits "progress" events per stage, then one "result" or "error" event
func (h *Handler) analyzeStream(c *gin.Context, req AnalyzeRequest) {
	if _, err := request.ValidateRaw(req.Type, req.Fields); err != nil {
		respondErr(c, err)
		return
	}

	ctx := c.Request.Context()
	progress := make(chan ProgressEvent, 8)
	type outcome struct {
		a   *model.Analysis
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		sink := pipeline.ProgressFunc(func(stage string, fraction float64) {
			select {
			case progress <- ProgressEvent{Stage: stage, Fraction: fraction}:
			case <-ctx.Done():
			}
		})
		a, err := h.sess.Analyze(ctx, req.Type, req.Fields, sink)
		done <- outcome{a, err}
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case p := <-progress:
			c.SSEvent("progress", p)
			return true
		case out := <-done:
			// progress sent before completion is still buffered
		drain:
			for {
				select {
				case p := <-progress:
					c.SSEvent("progress", p)
				default:
					break drain
				}
			}
			if out.err != nil {
				_, code := classify(out.err)
				c.SSEvent("error", ErrorEnvelope{Error: APIError{Message: out.err.Error(), Code: code}})
				return false
			}
			c.SSEvent("result", newAnalysisResponse(*out.a))
			return false
		case <-ctx.Done():
			return false
		}
	})
}

// GET /api/analyses?limit=5
func (h *Handler) List(c *gin.Context) {
	limit := history.PreviewSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "BadRequest", fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	recent := h.sess.Recent(limit)
	lines := make([]render.HistoryLine, 0, len(recent))
	for _, a := range recent {
		lines = append(lines, render.Line(a))
	}
	RespondOK(c, gin.H{"analyses": lines, "total": h.sess.Store().Len()})
}

// GET /api/analyses/:id selects the analysis
func (h *Handler) Get(c *gin.Context) {
	id, err := history.ParseID(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	a, err := h.sess.Select(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, newAnalysisResponse(a))
}

// GET /api/analyses/:id/export
func (h *Handler) ExportByID(c *gin.Context) {
	id, err := history.ParseID(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	var buf bytes.Buffer
	a, err := h.sess.WriteExportFor(&buf, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	attach(c, a, buf.Bytes())
}

// GET /api/export exports the current selection
func (h *Handler) ExportCurrent(c *gin.Context) {
	var buf bytes.Buffer
	a, err := h.sess.WriteExport(&buf)
	if err != nil {
		respondErr(c, err)
		return
	}
	attach(c, a, buf.Bytes())
}

func attach(c *gin.Context, a model.Analysis, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(a)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GET /api/analyses/:id/report
func (h *Handler) Report(c *gin.Context) {
	id, err := history.ParseID(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	a, err := h.sess.Find(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	var buf bytes.Buffer
	if err := render.Detailed(&buf, a); err != nil {
		respondErr(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
}

// POST /api/analyses/:id/feedback
func (h *Handler) Feedback(c *gin.Context) {
	id, err := history.ParseID(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if _, err := h.sess.Find(id); err != nil {
		respondErr(c, err)
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "BadRequest", fmt.Errorf("decode body: %w", err))
		return
	}
	msg, err := h.sess.Feedback(req.Kind)
	if err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"message": msg})
}

// GET /api/contexts
func (h *Handler) Contexts(c *gin.Context) {
	RespondOK(c, gin.H{"contexts": model.CulturalContexts()})
}

// GET /api/samples/:type
func (h *Handler) Sample(c *gin.Context) {
	t, err := model.ParseContentType(c.Param("type"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "NoSample", err)
		return
	}
	s, ok := request.SampleFor(t)
	if !ok {
		RespondError(c, http.StatusNotFound, "NoSample", fmt.Errorf("no sample available for %s analysis", t))
		return
	}
	RespondOK(c, s)
}

// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	RespondOK(c, gin.H{
		"status":  "ok",
		"scorer":  h.sess.Pipeline().ScorerName(),
		"history": h.sess.Store().Len(),
	})
}
