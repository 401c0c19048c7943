package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"civicfix/backend/internal/intake"
	"civicfix/backend/internal/lifecycle"
	"civicfix/backend/internal/sla"
	"civicfix/backend/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SubmitComplaint handles POST /api/complaints (multipart form). 201 with
// the tracking code on success; 400 for input or triage problems, 401 for
// unauthenticated callers, 429 when rate limited.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	sub := intake.Submission{
		SourceAddr:        c.ClientIP(),
		ReporterID:        c.GetString("principal_id"),
		Category:          c.PostForm("category"),
		Description:       c.PostForm("description"),
		Address:           c.PostForm("address"),
		DeviceFingerprint: c.GetHeader("X-Device-Fingerprint"),
	}
	if lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64); err == nil {
		sub.Latitude = &lat
	}
	if lng, err := strconv.ParseFloat(c.PostForm("longitude"), 64); err == nil {
		sub.Longitude = &lng
	}

	if file, header, err := c.Request.FormFile("image"); err == nil {
		data, mime, readErr := readUpload(file, header)
		if readErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded image"})
			return
		}
		ref, storeErr := h.Evidence.Store(data, mime)
		if storeErr != nil {
			log.WithError(storeErr).Error("evidence store unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evidence storage unavailable"})
			return
		}
		sub.ImageURL = ref
		sub.ImageBytes = data
		sub.ImageMime = mime
	}

	complaint, err := h.Intake.Submit(c.Request.Context(), sub)
	if err != nil {
		var triageErr *intake.TriageRejectedError
		switch {
		case errors.Is(err, intake.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.Is(err, intake.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, intake.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.As(err, &triageErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": triageErr.Error(), "analysis": triageErr.Reason})
		default:
			log.WithError(err).Error("submission failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register complaint"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":            complaint.ID,
		"tracking_code": complaint.TrackingCode,
		"department":    complaint.Department,
		"status":        complaint.Status,
	})
}

// TransitionComplaint handles POST /api/complaints/:id/status (staff only,
// multipart form: target_status, remark, optional resolution_image).
func (h *Handler) TransitionComplaint(c *gin.Context) {
	recordID := c.Param("id")
	targetStatus := c.PostForm("target_status")
	remark := c.PostForm("remark")
	actorID := c.GetString("principal_id")

	evidenceRef := c.PostForm("resolution_image_url")
	if file, header, err := c.Request.FormFile("resolution_image"); err == nil {
		data, mime, readErr := readUpload(file, header)
		if readErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read resolution image"})
			return
		}
		ref, storeErr := h.Evidence.Store(data, mime)
		if storeErr != nil {
			log.WithError(storeErr).Error("evidence store unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evidence storage unavailable"})
			return
		}
		evidenceRef = ref
	}

	err := h.Engine.Transition(recordID, targetStatus, actorID, remark, evidenceRef)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		case errors.Is(err, lifecycle.ErrEvidenceRequired), errors.Is(err, lifecycle.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrStaleStatus):
			c.JSON(http.StatusConflict, gin.H{"error": "complaint was updated concurrently, retry"})
		default:
			log.WithError(err).Error("transition failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update complaint"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": targetStatus})
}

type withdrawRequest struct {
	TrackingCode string `json:"tracking_code" binding:"required"`
}

// WithdrawComplaint handles POST /api/complaints/:id/withdraw. The caller
// proves ownership by presenting the record id together with its tracking
// code.
func (h *Handler) WithdrawComplaint(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tracking_code is required"})
		return
	}

	err := h.Engine.Withdraw(c.Param("id"), req.TrackingCode)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		case errors.Is(err, lifecycle.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, lifecycle.ErrNotPending):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.WithError(err).Error("withdrawal failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to withdraw complaint"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "resolved", "remark": lifecycle.WithdrawRemark})
}

// GetComplaint handles GET /api/complaints/:id, embedding the current SLA
// standing into the view.
func (h *Handler) GetComplaint(c *gin.Context) {
	complaint, err := h.Storage.GetComplaintByID(c.Param("id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"complaint": complaint,
		"sla":       sla.Evaluate(complaint.CreatedAt, complaint.Category, complaint.Status),
	})
}

// GetSLAStatus handles GET /api/complaints/:id/sla.
func (h *Handler) GetSLAStatus(c *gin.Context) {
	complaint, err := h.Storage.GetComplaintByID(c.Param("id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, sla.Evaluate(complaint.CreatedAt, complaint.Category, complaint.Status))
}

// TrackComplaint handles GET /api/complaints/track/:code, returning the
// record with its full audit timeline.
func (h *Handler) TrackComplaint(c *gin.Context) {
	complaint, err := h.Storage.GetComplaintByTrackingCode(c.Param("code"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	trail, err := h.Storage.ListAuditTrail(complaint.TrackingCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load timeline"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"complaint": complaint,
		"timeline":  trail,
		"sla":       sla.Evaluate(complaint.CreatedAt, complaint.Category, complaint.Status),
	})
}

// ListComplaints handles GET /api/complaints (staff only), filtered by the
// status and department query parameters.
func (h *Handler) ListComplaints(c *gin.Context) {
	complaints, err := h.Storage.ListComplaints(c.Query("status"), c.Query("department"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "count": len(complaints)})
}

type feedbackRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Text   string `json:"text"`
}

// SubmitFeedback handles POST /api/complaints/:id/feedback, accepted only
// while the complaint is resolved.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating between 1 and 5 is required"})
		return
	}

	err := h.Engine.Feedback(c.Param("id"), req.Rating, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		case errors.Is(err, lifecycle.ErrFeedbackNotAllowed), errors.Is(err, lifecycle.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.WithError(err).Error("feedback failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save feedback"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "feedback recorded"})
}

// Upvote handles POST /api/complaints/:id/upvote. Idempotent per voter: a
// repeat vote returns 409 without touching the count.
func (h *Handler) Upvote(c *gin.Context) {
	count, err := h.Engine.Upvote(c.Param("id"), c.GetString("principal_id"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		case errors.Is(err, storage.ErrAlreadyUpvoted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.WithError(err).Error("upvote failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record upvote"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"upvotes": count})
}

func respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}
	log.WithError(err).Error("complaint lookup failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
}

func readUpload(file multipart.File, header *multipart.FileHeader) ([]byte, string, error) {
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}
	return data, mime, nil
}
