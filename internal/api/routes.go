package api

import "github.com/gin-gonic/gin"

// RegisterRoutes wires every API endpoint onto the router. Generated site
// files are served read-only from the workspace directory under /output.
func RegisterRoutes(router *gin.Engine, handler *APIHandler) {
	router.POST("/generate", handler.Generate)
	router.GET("/files", handler.Files)
	router.GET("/download-zip", handler.DownloadZip)
	router.GET("/history", handler.History)
	router.GET("/health", handler.Health)

	router.GET("/output/:filename", handler.ServeOutput)
}
