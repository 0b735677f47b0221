package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lunaqr/lunaqr/internal/export"
	"github.com/lunaqr/lunaqr/internal/render"
)

// batchRequest is the JSON body for a batch export. Optional style fields
// fall back to the defaults when absent or out of range.
type batchRequest struct {
	URLs               []string `json:"urls" binding:"required"`
	Color              string   `json:"color"`
	DistancePercent    *int     `json:"distancePercent"`
	CellSizePercent    *int     `json:"cellSizePercent"`
	PatternSizePercent *int     `json:"patternSizePercent"`
	Seed               *int64   `json:"seed"`
}

// BatchExportHandler renders every URL in the request at spreadsheet
// resolution and returns an XLSX workbook with one row per entry. Bad
// entries are skipped and reported unless abort mode is configured.
func (h *Handler) BatchExportHandler(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "urls must not be empty"})
		return
	}

	style := render.DefaultStyle(h.cfg.SpreadsheetModuleSize)
	if col, err := render.ParseHexColor(req.Color); err == nil {
		style.Color = col
	}
	if req.DistancePercent != nil {
		style.DistancePercent = clampInt(*req.DistancePercent, render.MinDistancePercent, render.MaxDistancePercent)
	}
	if req.CellSizePercent != nil {
		style.CellSizePercent = clampInt(*req.CellSizePercent, render.MinCellSizePercent, render.MaxCellSizePercent)
	}
	if req.PatternSizePercent != nil {
		style.PatternSizePercent = clampInt(*req.PatternSizePercent, render.MinPatternSizePercent, render.MaxPatternSizePercent)
	}
	if req.Seed != nil {
		style.Seed = *req.Seed
	}

	sink := export.NewXLSXSink()
	exporter := &export.Exporter{
		Renderer:     h.renderer,
		Sink:         sink,
		AbortOnError: h.cfg.BatchAbortOnError,
	}

	skipped, err := exporter.Export(c.Request.Context(), req.URLs, style, false)
	if err != nil {
		if c.Request.Context().Err() != nil {
			c.Abort()
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if len(skipped) == len(req.URLs) {
		errs := make([]string, len(skipped))
		for i, s := range skipped {
			errs[i] = s.Error()
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no rows could be exported", "rows": errs})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="qr-flourish.xlsx"`)
	c.Header("X-Batch-Rows", strconv.Itoa(len(req.URLs)-len(skipped)))
	c.Header("X-Batch-Skipped", strconv.Itoa(len(skipped)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", sink.Bytes())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
