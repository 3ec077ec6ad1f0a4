package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/document"
	"github.com/spigell/labmatch/internal/recommend"
)

type recommendationRequest struct {
	Task string `json:"task" binding:"required"`
}

func (h handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h handlers) ingestDocument(c *gin.Context) {
	log := requestLog(c)

	limit := h.deps.UploadLimit
	if limit <= 0 {
		limit = MaxUploadSize
	}
	if c.Request.ContentLength > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request body exceeds %d bytes", limit)})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request body exceeds %d bytes", limit)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("multipart field \"file\" is required: %v", err)})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.deps.Ingestor.Ingest(c.Request.Context(), raw, header.Filename)
	if err != nil {
		log.Warn("ingest failed", zap.String("filename", header.Filename), zap.Error(err))
		c.JSON(ingestStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fields":     result,
		"confidence": result.Confidence,
	})
}

func ingestStatus(err error) int {
	var unsupported *document.UnsupportedFormatError
	var extraction *document.ExtractionError
	var insufficient *document.InsufficientTextError

	switch {
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extraction), errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h handlers) scores(c *gin.Context) {
	log := requestLog(c)

	reference, candidates, err := h.deps.Candidates.Candidates(c.Request.Context(), h.deps.Filters)
	if err != nil {
		log.Error("loading labs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ranked, err := recommend.Rank(reference, candidates)
	if err != nil {
		c.JSON(matchStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reference": reference.Name,
		"scores":    ranked,
	})
}

func (h handlers) recommendations(c *gin.Context) {
	log := requestLog(c)

	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reference, candidates, err := h.deps.Candidates.Candidates(c.Request.Context(), h.deps.Filters)
	if err != nil {
		log.Error("loading labs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := h.deps.Merger.Merge(c.Request.Context(), reference, candidates, req.Task)
	if err != nil {
		log.Warn("recommendation failed", zap.Error(err))

		body := gin.H{"error": err.Error()}
		if scores, ok := recommend.LocalScores(err); ok {
			body["scores"] = scores
		}
		var parseErr *recommend.AdvisoryParseError
		if errors.As(err, &parseErr) {
			body["raw_response"] = parseErr.Raw
		}

		c.JSON(matchStatus(err), body)
		return
	}

	c.JSON(http.StatusOK, result)
}

func matchStatus(err error) int {
	var parseErr *recommend.AdvisoryParseError
	var unavailable *recommend.AdvisoryUnavailableError

	switch {
	case errors.Is(err, recommend.ErrTaskRequired):
		return http.StatusBadRequest
	case errors.Is(err, recommend.ErrNoReference):
		return http.StatusNotFound
	case errors.As(err, &parseErr):
		return http.StatusBadGateway
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
