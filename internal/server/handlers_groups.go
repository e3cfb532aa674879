package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"splitledger/internal/middleware"
	"splitledger/internal/models"
)

type createGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type addMemberRequest struct {
	AccountID string `json:"account_id" binding:"required"`
}

type inviteRequest struct {
	AccountID string `json:"account_id" binding:"required"`
}

type respondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

type groupResponse struct {
	Group   *models.FriendGroup  `json:"group"`
	Members []models.GroupMember `json:"members"`
}

// POST /api/groups
func (s *Server) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := s.groups.CreateGroup(c.Request.Context(), req.Name, middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GET /api/groups
func (s *Server) listGroups(c *gin.Context) {
	groups, err := s.groups.ListGroups(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GET /api/groups/:id
func (s *Server) getGroup(c *gin.Context) {
	group, members, err := s.groups.GetGroup(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, groupResponse{Group: group, Members: members})
}

// POST /api/groups/:id/members
func (s *Server) addMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.groups.AddMember(c.Request.Context(), c.Param("id"), req.AccountID, middleware.AccountID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group_id": c.Param("id"), "account_id": req.AccountID})
}

// POST /api/groups/:id/invitations
func (s *Server) invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := s.groups.Invite(c.Request.Context(), c.Param("id"), req.AccountID, middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// GET /api/groups/:id/invitations
func (s *Server) listInvitations(c *gin.Context) {
	invitations, err := s.groups.ListInvitations(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// POST /api/invitations/:id/respond
func (s *Server) respondInvitation(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := s.groups.Respond(c.Request.Context(), c.Param("id"), middleware.AccountID(c), *req.Accept)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}
