package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ktuacm/clubportal-backend/internal/services"
)

// errorKind maps a taxonomy error to the machine-readable kind the UI keys
// its messages on.
type errorKind struct {
	status int
	kind   string
}

var errorKinds = []struct {
	err  error
	info errorKind
}{
	{services.ErrNotEligible, errorKind{http.StatusForbidden, "not-eligible"}},
	{services.ErrAlreadyVoted, errorKind{http.StatusConflict, "already-voted"}},
	{services.ErrElectionNotActive, errorKind{http.StatusConflict, "election-not-active"}},
	{services.ErrInvalidCode, errorKind{http.StatusUnauthorized, "invalid-code"}},
	{services.ErrCodeExpired, errorKind{http.StatusUnauthorized, "code-expired"}},
	{services.ErrInvalidBallot, errorKind{http.StatusBadRequest, "invalid-ballot"}},
	{services.ErrInsufficientSetup, errorKind{http.StatusBadRequest, "insufficient-setup"}},
	{services.ErrInvalidSuspensionReason, errorKind{http.StatusBadRequest, "invalid-suspension-reason"}},
	{services.ErrInvalidTransition, errorKind{http.StatusConflict, "invalid-transition"}},
	{services.ErrImmutableElection, errorKind{http.StatusConflict, "immutable-election"}},
	{services.ErrNotFound, errorKind{http.StatusNotFound, "not-found"}},
}

// respondError writes a taxonomy error as a distinguishable JSON payload.
// Unknown errors surface as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	for _, e := range errorKinds {
		if errors.Is(err, e.err) {
			c.JSON(e.info.status, gin.H{"error": e.err.Error(), "kind": e.info.kind})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "kind": "internal"})
}
