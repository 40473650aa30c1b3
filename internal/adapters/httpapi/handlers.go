package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikey/phishing-relay/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// classifyRequest is the POST /api/phishing body. The pointer
// distinguishes a missing emails field from an empty batch; both a
// missing field and a non-array value are client errors.
type classifyRequest struct {
	Emails *[]core.EmailSummary `json:"emails"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleListModels(c *gin.Context) {
	models, err := s.service.ListModels(c.Request.Context())
	if err != nil {
		if errors.Is(err, core.ErrNoCredential) {
			serviceUnavailable(c, "LLM credential not configured")
			return
		}
		// Forward the upstream status and message when the provider
		// reported one.
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code >= 400 {
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message, "body": apiErr.Body})
			return
		}
		internalError(c, s.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(models), "models": models})
}

func (s *Server) handlePingGen(c *gin.Context) {
	raw, err := s.service.PingGeneration(c.Request.Context())
	if err != nil {
		if errors.Is(err, core.ErrNoCredential) || errors.Is(err, core.ErrModelUnbound) {
			serviceUnavailable(c, "no generative model available")
			return
		}
		internalError(c, s.logger, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(raw))
}

func (s *Server) handleClassify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Emails == nil {
		badRequest(c, "request body must contain an emails array")
		return
	}

	result, err := s.service.ClassifyBatch(c.Request.Context(), *req.Emails)
	if err != nil {
		s.respondClassifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondClassifyError maps a classification failure to its HTTP status.
func (s *Server) respondClassifyError(c *gin.Context, err error) {
	if errors.Is(err, core.ErrNoCredential) {
		serviceUnavailable(c, "LLM credential not configured")
		return
	}
	if errors.Is(err, core.ErrModelUnbound) {
		serviceUnavailable(c, "no generative model bound")
		return
	}

	var formatErr *core.UpstreamFormatError
	if errors.As(err, &formatErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "model returned non-JSON content",
			"raw":   formatErr.Raw,
		})
		return
	}
	var schemaErr *core.UpstreamSchemaError
	if errors.As(err, &schemaErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  "model response missing results array",
			"parsed": schemaErr.Parsed,
		})
		return
	}

	internalError(c, s.logger, err)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func serviceUnavailable(c *gin.Context, msg string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
}

func internalError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Error("Unexpected request failure", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
