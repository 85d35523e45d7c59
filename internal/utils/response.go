package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/pipeline"
)

func Success(c *gin.Context, data any) {
	c.JSON(200, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   msg,
	})
}

// PipelineError renders a typed stage failure as {stage, kind, message}.
func PipelineError(c *gin.Context, code int, perr *pipeline.Error) {
	c.JSON(code, gin.H{
		"success": false,
		"error": gin.H{
			"stage":   perr.Stage,
			"kind":    perr.Kind,
			"message": perr.Message,
		},
	})
}
