package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) profile(c *gin.Context) {
	username := c.Param("username")
	p, err := s.users.Profile(c.Request.Context(), username)
	if errors.Is(err, common.ErrorNotFound) {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"username":            p.Username,
		"isAcceptingMessages": p.IsAcceptingMessages,
		"profileUrl":          s.baseURL + "/u/" + p.Username,
	})
}

type sendMessageRequest struct {
	Username string `json:"username"`
	Content  string `json:"content" binding:"required"`
}

func (s *HTTPServer) sendToProfile(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	s.send(c, c.Param("username"), req.Content)
}

func (s *HTTPServer) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		badRequest(c)
		return
	}
	s.send(c, req.Username, req.Content)
}

func (s *HTTPServer) send(c *gin.Context, username, content string) {
	_, err := s.messages.Send(c.Request.Context(), username, content)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		fail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, common.ErrNotAcceptingMessages):
		fail(c, http.StatusForbidden, "User is not accepting messages")
	case errors.Is(err, common.ErrorValidation):
		fail(c, http.StatusBadRequest, "Message must be between 10 and 300 characters")
	case err != nil:
		s.writeError(c, err)
	default:
		ok(c, http.StatusCreated, "Message sent successfully")
	}
}

func (s *HTTPServer) getMessages(c *gin.Context) {
	identity := currentIdentity(c)
	list, err := s.messages.List(c.Request.Context(), identity.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if list == nil {
		list = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": list})
}

func (s *HTTPServer) deleteMessage(c *gin.Context) {
	identity := currentIdentity(c)
	err := s.messages.Delete(c.Request.Context(), identity.ID, c.Param("id"))
	switch {
	case errors.Is(err, common.ErrorNotFound):
		fail(c, http.StatusNotFound, "Message not found or already deleted")
	case errors.Is(err, common.ErrInvalidID):
		fail(c, http.StatusBadRequest, "Invalid message id")
	case err != nil:
		s.writeError(c, err)
	default:
		ok(c, http.StatusOK, "Message deleted")
	}
}

func (s *HTTPServer) getAcceptMessages(c *gin.Context) {
	identity := currentIdentity(c)
	on, err := s.messages.GetAcceptingMessages(c.Request.Context(), identity.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isAcceptingMessages": on})
}

type acceptMessagesRequest struct {
	AcceptMessages *bool `json:"acceptMessages" binding:"required"`
}

func (s *HTTPServer) setAcceptMessages(c *gin.Context) {
	var req acceptMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	identity := currentIdentity(c)
	if err := s.messages.SetAcceptingMessages(c.Request.Context(), identity.ID, *req.AcceptMessages); err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "Message acceptance status updated successfully")
}

func (s *HTTPServer) exportMessages(c *gin.Context) {
	url, err := s.messages.Export(c.Request.Context(), currentIdentity(c))
	if errors.Is(err, common.ErrNotConfigured) {
		fail(c, http.StatusServiceUnavailable, "Message export is not configured")
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

func (s *HTTPServer) suggestMessages(c *gin.Context) {
	sug := s.suggestions.Suggest(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": sug.Message, "fallback": sug.Fallback})
}
