package handlers

import (
	"fmt"
	"net/http"

	"naebak/internal/db"
	"naebak/internal/middleware"
	"naebak/internal/models"
	"naebak/internal/workflow"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	svc *workflow.Service
}

func NewVoteHandler(svc *workflow.Service) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Toggle flips the actor's vote on a complaint. Anonymous visitors vote too,
// keyed by IP, so no login redirect here.
func (h *VoteHandler) Toggle(c *gin.Context) {
	kind := models.VoteKind(c.Param("kind"))
	ref := c.Param("ref")

	var complaint models.Complaint
	if err := db.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	actor := middleware.GetActor(c)
	result, err := h.svc.ToggleVote(complaint.ID, kind, actor)
	if err != nil {
		status := http.StatusInternalServerError
		switch workflow.KindOf(err) {
		case workflow.KindValidation, workflow.KindPrecondition:
			status = http.StatusBadRequest
		case workflow.KindNotFound:
			status = http.StatusNotFound
		}
		c.String(status, workflow.UserMessage(err))
		return
	}

	// HTMX swaps the button label with the fresh count.
	count := result.Upvotes
	if kind == models.VoteDown {
		count = result.Downvotes
	}
	c.String(http.StatusOK, fmt.Sprintf("%d", count))
}
