package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"splitledger/internal/auth"
	"splitledger/internal/ledger"
)

// writeError maps a service error to an HTTP status and JSON body.
// Ledger errors carry a machine-readable kind; everything else is an
// internal failure and the message is not leaked.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, auth.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	kind := ledger.KindOf(err)
	if kind == "" {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(statusForKind(kind), gin.H{"error": err.Error(), "kind": kind})
}

func statusForKind(kind ledger.Kind) int {
	switch kind {
	case ledger.KindNotFound:
		return http.StatusNotFound
	case ledger.KindInvalidParty:
		return http.StatusForbidden
	case ledger.KindInvalidSplit, ledger.KindOverpayment:
		return http.StatusBadRequest
	case ledger.KindConflict, ledger.KindAlreadyMember, ledger.KindAlreadyInvited, ledger.KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
