package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mintid-backend/internal/model"
	"mintid-backend/internal/storage"
)

// GetStorageQuota handles GET /api/orgs/:org_id/storage/quota.
func (h *Handler) GetStorageQuota(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}

	snap, err := h.engine.QuotaSnapshot(c.Request.Context(), orgID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load storage quota"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UploadFile handles POST /api/orgs/:org_id/storage/upload
// (multipart). The file lands in the "uploads" bucket unless a bucket
// form field says otherwise.
func (h *Handler) UploadFile(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	bucket := c.DefaultPostForm("bucket", "uploads")

	result, err := h.engine.UploadWithOptimization(c.Request.Context(), storage.UploadInput{
		OrgID:    orgID,
		Bucket:   bucket,
		Filename: fileHeader.Filename,
		MimeType: mimeType,
		Actor:    c.PostForm("actor"),
		Data:     data,
	})
	if err != nil {
		var admErr *storage.AdmissionError
		if errors.As(err, &admErr) {
			c.JSON(http.StatusForbidden, gin.H{"error": admErr.Reason})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetRecommendations handles GET
// /api/orgs/:org_id/storage/recommendations, returning tracked files
// with a cleanup recommendation other than keep.
func (h *Handler) GetRecommendations(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}

	recs, err := h.store.ListUsageRecords(c.Request.Context(), orgID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recommendations"})
		return
	}

	out := make([]model.UsageRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.Recommendation == "" || rec.Recommendation == model.RecommendationKeep {
			continue
		}
		out = append(out, rec)
	}
	c.JSON(http.StatusOK, out)
}

type implementRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// ImplementRecommendations handles POST
// /api/orgs/:org_id/storage/recommendations/implement. The batch is
// best-effort; the response carries aggregate success/failure counts.
func (h *Handler) ImplementRecommendations(c *gin.Context) {
	orgID, ok := orgIDParam(c)
	if !ok {
		return
	}

	var req implementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.engine.ImplementRecommendations(c.Request.Context(), orgID, req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, outcome)
}
