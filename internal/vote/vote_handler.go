package vote

import (
	"context"
	"net/http"
	"time"

	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	voteService Service
	// timeout bounds one submission end to end, including the wait for a
	// pooled database connection.
	timeout time.Duration
}

func NewHandler(voteService Service, timeout time.Duration) *Handler {
	return &Handler{voteService: voteService, timeout: timeout}
}

// Submit godoc
// @Summary      Submit a vote (unified body)
// @Description  Accepts exactly one of selected_key, selected_keys or free_text.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        vote body vote.SubmitRequest true "Vote"
// @Success      200 {object} vote.TallySnapshot
// @Failure      404 {object} map[string]string
// @Failure      422 {object} map[string]string
// @Router       /api/vote [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	h.submit(c, &req)
}

// SubmitSingle godoc
// @Summary      Submit a single-choice vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        vote body vote.SingleVoteRequest true "Vote"
// @Success      200 {object} vote.TallySnapshot
// @Router       /api/vote/single [post]
func (h *Handler) SubmitSingle(c *gin.Context) {
	var req SingleVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	h.submit(c, &SubmitRequest{
		UserUUID:     req.UserUUID,
		QuestionCode: req.QuestionCode,
		SelectedKey:  &req.OptionSelect,
		FreeText:     req.OtherText,
	})
}

// SubmitCheckbox godoc
// @Summary      Submit a multi-select vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        vote body vote.CheckboxVoteRequest true "Vote"
// @Success      200 {object} vote.TallySnapshot
// @Router       /api/vote/checkbox [post]
func (h *Handler) SubmitCheckbox(c *gin.Context) {
	var req CheckboxVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	h.submit(c, &SubmitRequest{
		UserUUID:     req.UserUUID,
		QuestionCode: req.QuestionCode,
		SelectedKeys: req.OptionSelects,
		FreeText:     req.OtherText,
		Weight:       req.Weight,
	})
}

// SubmitOther godoc
// @Summary      Submit a free-text vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        vote body vote.OtherVoteRequest true "Vote"
// @Success      200 {object} vote.TallySnapshot
// @Router       /api/vote/other [post]
func (h *Handler) SubmitOther(c *gin.Context) {
	var req OtherVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	h.submit(c, &SubmitRequest{
		UserUUID:     req.UserUUID,
		QuestionCode: req.QuestionCode,
		FreeText:     req.OtherText,
	})
}

func (h *Handler) submit(c *gin.Context, req *SubmitRequest) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	snapshot, err := h.voteService.SubmitVote(ctx, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"question_code":   snapshot.QuestionCode,
		"results":         snapshot.Results,
		"total_responses": snapshot.TotalResponses,
	})
}

// GetResults godoc
// @Summary      Aggregated tally for a question
// @Tags         votes
// @Produce      json
// @Param        question_code path string true "Question code"
// @Success      200 {object} vote.TallySnapshot
// @Failure      404 {object} map[string]string
// @Router       /api/results/{question_code} [get]
func (h *Handler) GetResults(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	snapshot, err := h.voteService.GetResults(ctx, c.Param("question_code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"question_code":   snapshot.QuestionCode,
		"results":         snapshot.Results,
		"total_responses": snapshot.TotalResponses,
	})
}
