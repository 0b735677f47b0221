package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lunaqr/lunaqr/internal/export"
	"github.com/lunaqr/lunaqr/internal/render"
)

// QRCodeHandler renders the decorated QR composite for a URL and streams it
// as PNG, or returns it as a data URI when format=datauri is requested.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL parameter is required"})
		return
	}
	normalizedURL, err := export.NormalizeURL(rawURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	moduleSize := h.cfg.PreviewModuleSize
	if c.DefaultQuery("size", "preview") == "download" {
		moduleSize = h.cfg.DownloadModuleSize
	}
	style := h.styleFromQuery(c, moduleSize)
	transparent := c.Query("transparent") == "true"

	final, err := h.renderer.Render(c.Request.Context(), normalizedURL, style, transparent)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")

	if c.DefaultQuery("format", "png") == "datauri" {
		uri, err := render.DataURI(final.Img)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode QR code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"image": uri})
		return
	}

	raw, err := render.EncodePNG(final.Img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", raw)
}

// DownloadHandler renders the composite at full resolution and returns it as
// a PNG attachment.
func (h *Handler) DownloadHandler(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL parameter is required"})
		return
	}
	normalizedURL, err := export.NormalizeURL(rawURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	style := h.styleFromQuery(c, h.cfg.DownloadModuleSize)
	transparent := c.Query("transparent") == "true"

	final, err := h.renderer.Render(c.Request.Context(), normalizedURL, style, transparent)
	if err != nil {
		h.renderError(c, err)
		return
	}
	raw, err := render.EncodePNG(final.Img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode QR code"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="qr-flourish.png"`)
	c.Data(http.StatusOK, "image/png", raw)
}

// styleFromQuery builds a Style from query parameters, keeping the default
// for any value that is missing or invalid.
func (h *Handler) styleFromQuery(c *gin.Context, moduleSize int) render.Style {
	style := render.DefaultStyle(moduleSize)

	if col, err := render.ParseHexColor(c.Query("color")); err == nil {
		style.Color = col
	}
	style.DistancePercent = intInRange(c.Query("distance"), style.DistancePercent, render.MinDistancePercent, render.MaxDistancePercent)
	style.CellSizePercent = intInRange(c.Query("cell"), style.CellSizePercent, render.MinCellSizePercent, render.MaxCellSizePercent)
	style.PatternSizePercent = intInRange(c.Query("pattern"), style.PatternSizePercent, render.MinPatternSizePercent, render.MaxPatternSizePercent)
	if s := c.Query("seed"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			style.Seed = v
		}
	}
	return style
}

// intInRange parses s and returns it when it falls within [lo, hi],
// otherwise the fallback.
func intInRange(s string, fallback, lo, hi int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		return fallback
	}
	return v
}

// renderError maps pipeline errors to HTTP responses.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, render.ErrEncoding), errors.Is(err, render.ErrInvalidStyle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case c.Request.Context().Err() != nil:
		// Client went away; the stale render result is discarded.
		c.Abort()
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
	}
}
