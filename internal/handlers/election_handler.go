package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ktuacm/clubportal-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ElectionHandler handles the administrative election endpoints
type ElectionHandler struct {
	electionService   services.ElectionService
	tabulationService services.TabulationService
}

// NewElectionHandler creates a new ElectionHandler
func NewElectionHandler(electionService services.ElectionService, tabulationService services.TabulationService) *ElectionHandler {
	return &ElectionHandler{
		electionService:   electionService,
		tabulationService: tabulationService,
	}
}

func electionID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateElection handles POST /admin/elections
type CreateElectionRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	UseRankedChoice bool   `json:"useRankedChoice"`
}

func (h *ElectionHandler) CreateElection(c *gin.Context) {
	var request CreateElectionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdBy := c.GetString("user_id")
	election, err := h.electionService.CreateElection(c.Request.Context(), request.Title, request.Description, request.UseRankedChoice, createdBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, election)
}

// UpdateElection handles PUT /admin/elections/:id
func (h *ElectionHandler) UpdateElection(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	var request CreateElectionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	election, err := h.electionService.UpdateElection(c.Request.Context(), id, request.Title, request.Description, request.UseRankedChoice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// ListElections handles GET /admin/elections (all statuses)
func (h *ElectionHandler) ListElections(c *gin.Context) {
	elections, err := h.electionService.ListElections(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, elections)
}

// AddCandidate handles POST /admin/elections/:id/candidates
type AddCandidateRequest struct {
	Name         string `json:"name" binding:"required"`
	Bio          string `json:"bio"`
	PhotoURL     string `json:"photoUrl"`
	DisplayOrder int    `json:"displayOrder"`
}

func (h *ElectionHandler) AddCandidate(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	var request AddCandidateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidate, err := h.electionService.AddCandidate(c.Request.Context(), id, request.Name, request.Bio, request.PhotoURL, request.DisplayOrder)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

// RemoveCandidate handles DELETE /admin/elections/:id/candidates/:candidateId
func (h *ElectionHandler) RemoveCandidate(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	candidateID, err := primitive.ObjectIDFromHex(c.Param("candidateId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID format"})
		return
	}

	if err := h.electionService.RemoveCandidate(c.Request.Context(), id, candidateID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ImportRoster handles POST /admin/elections/:id/voters/import with a CSV
// file in the "roster" multipart field.
func (h *ElectionHandler) ImportRoster(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("roster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing roster file"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open roster file"})
		return
	}
	defer file.Close()

	result, err := h.electionService.ImportRoster(c.Request.Context(), id, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CountVoters handles GET /admin/elections/:id/voters/count
func (h *ElectionHandler) CountVoters(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	count, err := h.electionService.CountVoters(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Activate handles POST /admin/elections/:id/activate
func (h *ElectionHandler) Activate(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	election, err := h.electionService.Activate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// Suspend handles POST /admin/elections/:id/suspend
type SuspendRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *ElectionHandler) Suspend(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	var request SuspendRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	election, err := h.electionService.Suspend(c.Request.Context(), id, request.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// Resume handles POST /admin/elections/:id/resume
func (h *ElectionHandler) Resume(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	election, err := h.electionService.Resume(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// Complete handles POST /admin/elections/:id/complete
func (h *ElectionHandler) Complete(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	election, err := h.electionService.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// PreviewResults handles GET /admin/elections/:id/results. Unlike the
// public endpoint this is allowed at any status; during an active election
// it is a live snapshot, stable only after completion.
func (h *ElectionHandler) PreviewResults(c *gin.Context) {
	id, ok := electionID(c)
	if !ok {
		return
	}
	result, err := h.tabulationService.Tabulate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
