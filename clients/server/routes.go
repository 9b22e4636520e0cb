package server

import (
	"io/fs"
	"net/http"
)

func (s *Server) registerRoutes(webFS fs.FS) {
	api := s.engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/catalog", s.handleCatalog)
		api.POST("/texture", s.handleTexture)

		api.GET("/captures", s.handleListCaptures)
		api.POST("/captures", s.handleCreateCapture)
		api.GET("/captures/:id", s.handleGetCapture)
		api.PUT("/captures/:id", s.handlePutCapture)
		api.DELETE("/captures/:id", s.handleDeleteCapture)
		api.POST("/captures/:id/preview", s.handlePreview)
		api.GET("/captures/:id/export", s.handleExport)
		api.POST("/captures/:id/export", s.handleExport)
		api.GET("/captures/:id/qr", s.handleQR)
	}

	s.engine.GET("/ws/captures/:id/preview", s.handleLivePreview)

	s.engine.NoRoute(staticFallback(http.FileServer(http.FS(webFS))))
}
