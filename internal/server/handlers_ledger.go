package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"splitledger/internal/middleware"
)

type createBillRequest struct {
	Description string `json:"description"`
}

type recordPaymentRequest struct {
	Amount      int64            `json:"amount" binding:"required"`
	Description string           `json:"description"`
	Shares      map[string]int64 `json:"shares" binding:"required"`
}

type recordSettlementRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Amount     int64  `json:"amount" binding:"required"`
}

// POST /api/groups/:id/bills
func (s *Server) createBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := s.ledgers.CreateBill(c.Request.Context(), c.Param("id"), req.Description, middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bill)
}

// GET /api/groups/:id/bills
func (s *Server) listBills(c *gin.Context) {
	bills, err := s.ledgers.ListBills(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

// GET /api/bills/:id
func (s *Server) getBill(c *gin.Context) {
	snapshot, err := s.ledgers.GetBill(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GET /api/bills/:id/payments
func (s *Server) listPayments(c *gin.Context) {
	payments, err := s.ledgers.ListPayments(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// POST /api/bills/:id/payments
func (s *Server) recordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := s.ledgers.RecordPayment(c.Request.Context(), c.Param("id"), middleware.AccountID(c), req.Amount, req.Description, req.Shares)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GET /api/bills/:id/settlements
func (s *Server) listSettlements(c *gin.Context) {
	settlements, err := s.ledgers.ListSettlements(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settlements": settlements})
}

// POST /api/bills/:id/settlements
func (s *Server) recordSettlement(c *gin.Context) {
	var req recordSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settlement, err := s.ledgers.RecordSettlement(c.Request.Context(), c.Param("id"), middleware.AccountID(c), req.ReceiverID, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, settlement)
}

// POST /api/settlements/:id/accept
func (s *Server) acceptSettlement(c *gin.Context) {
	settlement, err := s.ledgers.AcceptSettlement(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, settlement)
}

// GET /api/groups/:id/balances
func (s *Server) groupBalances(c *gin.Context) {
	balances, err := s.ledgers.Balances(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}
