package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ekaud/my-audio-summaries/application/ports/inbound"
	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/domain"
	"github.com/ekaud/my-audio-summaries/infrastructure/gin_interface/dto"
	"github.com/ekaud/my-audio-summaries/middleware"
)

type NarrationController interface {
	CreateNarration(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type narrationController struct {
	logger   outbound.LoggerPort
	pipeline inbound.NarrationPipelinePort
}

func NewNarrationController(logger outbound.LoggerPort, pipeline inbound.NarrationPipelinePort) NarrationController {
	return &narrationController{
		logger:   logger,
		pipeline: pipeline,
	}
}

// CreateNarration runs the pipeline for one pasted document and streams
// progress as server-sent events.
func (n *narrationController) CreateNarration(c *gin.Context) {
	var req dto.CreateNarrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newCtx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	doc := domain.Document{
		ID:            uuid.NewString(),
		Source:        "api",
		Title:         req.Title,
		MimeType:      "text/plain",
		Timestamp:     time.Now(),
		ExtractedText: req.Text,
	}

	c.SSEvent("accepted", gin.H{"document_id": doc.ID})
	c.Writer.Flush()

	artifact, err := n.pipeline.Run(newCtx, doc)
	if err != nil {
		n.logger.ErrorWithFields(err, "narration failed", map[string]interface{}{
			"document_id": doc.ID,
		})
		var precondition *domain.PreconditionError
		var validation *domain.ValidationError
		switch {
		case errors.As(err, &precondition), errors.As(err, &validation):
			c.SSEvent("error", err.Error())
		default:
			c.SSEvent("error", "internal server error")
		}
		return
	}

	c.SSEvent("artifact", artifact)
	c.SSEvent("complete", gin.H{"document_id": doc.ID})
}

func (n *narrationController) RegisterRoutes(g *gin.Engine) {
	g.POST("/narrations", middleware.SSEMiddleware(), n.CreateNarration)
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
