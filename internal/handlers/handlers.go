package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lunaqr/lunaqr/internal/config"
	"github.com/lunaqr/lunaqr/internal/render"
)

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	cfg      config.Config
	renderer *render.Renderer
}

// New returns a new Handler instance.
func New(cfg config.Config) *Handler {
	return &Handler{
		cfg:      cfg,
		renderer: render.NewRenderer(),
	}
}

// Routes registers the API endpoints on the given engine.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.GET("/qr/download", h.DownloadHandler)
		api.POST("/batch", h.BatchExportHandler)
	}
}
