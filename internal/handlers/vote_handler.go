package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoteHandler handles the voter-facing verification and ballot endpoints
type VoteHandler struct {
	electionService     services.ElectionService
	verificationService services.VerificationService
	votingService       services.VotingService
	tabulationService   services.TabulationService
}

// NewVoteHandler creates a new VoteHandler
func NewVoteHandler(
	electionService services.ElectionService,
	verificationService services.VerificationService,
	votingService services.VotingService,
	tabulationService services.TabulationService,
) *VoteHandler {
	return &VoteHandler{
		electionService:     electionService,
		verificationService: verificationService,
		votingService:       votingService,
		tabulationService:   tabulationService,
	}
}

// ListElections handles GET /elections (active elections only)
func (h *VoteHandler) ListElections(c *gin.Context) {
	elections, err := h.electionService.ListElections(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, elections)
}

// GetElection handles GET /elections/:id
func (h *VoteHandler) GetElection(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	election, candidates, err := h.electionService.GetElection(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"election": election, "candidates": candidates})
}

// RequestCode handles POST /elections/:id/verify
type RequestCodeRequest struct {
	StudentNo string `json:"studentNo" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

func (h *VoteHandler) RequestCode(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request RequestCodeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maskedEmail, err := h.verificationService.RequestCode(c.Request.Context(), id, request.StudentNo, request.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maskedEmail": maskedEmail})
}

// VerifyCode handles POST /elections/:id/verify/check
type VerifyCodeRequest struct {
	StudentNo string `json:"studentNo" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

func (h *VoteHandler) VerifyCode(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request VerifyCodeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.verificationService.VerifyCode(c.Request.Context(), id, request.StudentNo, request.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SubmitBallot handles POST /elections/:id/vote
type SubmitBallotRequest struct {
	StudentNo string   `json:"studentNo" binding:"required"`
	Code      string   `json:"code" binding:"required"`
	Rankings  []string `json:"rankings" binding:"required"`
}

func (h *VoteHandler) SubmitBallot(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request SubmitBallotRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rankings := make([]primitive.ObjectID, 0, len(request.Rankings))
	for _, raw := range request.Rankings {
		candidateID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, services.ErrInvalidBallot)
			return
		}
		rankings = append(rankings, candidateID)
	}

	if err := h.votingService.SubmitBallot(c.Request.Context(), id, request.StudentNo, request.Code, rankings); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetResults handles GET /elections/:id/results. Results are public only
// once the election is completed; admins use the preview endpoint before
// that.
func (h *VoteHandler) GetResults(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	election, _, err := h.electionService.GetElection(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if election.Status != models.ElectionStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Results are available after the election is completed", "kind": "election-not-completed"})
		return
	}

	result, err := h.tabulationService.Tabulate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
