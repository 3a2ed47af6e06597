package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/dmitrijs2005/mysterymessage/internal/server/services"
	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	DOB      string `json:"dob" binding:"required"`
}

// parseDOB accepts a calendar date or a full RFC 3339 timestamp.
func parseDOB(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func (s *HTTPServer) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	dob, err := parseDOB(req.DOB)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid date of birth")
		return
	}

	err = s.users.SignUp(c.Request.Context(), services.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		DOB:      dob,
	})
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		fail(c, http.StatusBadRequest, "User already exists with this email")
	case errors.Is(err, common.ErrUsernameTaken):
		fail(c, http.StatusBadRequest, "Username is already taken")
	case err != nil:
		s.writeError(c, err)
	default:
		ok(c, http.StatusCreated, "User registered successfully. Please verify your email")
	}
}

type verifyCodeRequest struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

func (s *HTTPServer) verifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	err := s.users.VerifyCode(c.Request.Context(), req.Username, req.Code)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		fail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, common.ErrCodeExpired):
		fail(c, http.StatusBadRequest, "Verification code has expired. Please sign up again to get a new code")
	case err != nil:
		s.writeError(c, err)
	default:
		ok(c, http.StatusOK, "Account verified successfully")
	}
}

func (s *HTTPServer) checkUsernameUnique(c *gin.Context) {
	unique, err := s.users.CheckUsernameUnique(c.Request.Context(), c.Query("username"))
	if errors.Is(err, common.ErrorValidation) {
		fail(c, http.StatusBadRequest, "Username must be 2-20 characters of letters, digits or underscore")
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !unique {
		fail(c, http.StatusOK, "Username is already taken")
		return
	}
	ok(c, http.StatusOK, "Username is unique")
}

type signInRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type signInResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    *models.Identity `json:"user"`
}

func (s *HTTPServer) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sess, err := s.users.Login(c.Request.Context(), req.Identifier, req.Password)
	if errors.Is(err, common.ErrorUnauthorized) {
		fail(c, http.StatusUnauthorized, "Incorrect identifier or password")
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.setSessionCookie(c, sess.Token, int(time.Until(sess.ExpiresAt).Seconds()))
	c.JSON(http.StatusOK, signInResponse{
		Success: true,
		Message: "Signed in",
		Token:   sess.Token,
		User:    sess.Identity,
	})
}

func (s *HTTPServer) signOut(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
	ok(c, http.StatusOK, "Signed out")
}

func (s *HTTPServer) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, value, maxAge, "/", "", strings.HasPrefix(s.baseURL, "https://"), true)
}

func (s *HTTPServer) session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "user": currentIdentity(c)})
}

func (s *HTTPServer) listUsers(c *gin.Context) {
	list, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
