package server

import (
	"net/http"

	"github.com/crimepatrol/backend/models"
	"github.com/crimepatrol/backend/server/response"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			response.JSON(c, "invalid request body", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		createdUser, apiErr := s.AuthService.SignupUser(&user)
		if apiErr != nil {
			response.JSON(c, "could not create account", apiErr.Status, nil, []string{apiErr.Message})
			return
		}

		resp := models.UserResponse{
			ID:        createdUser.ID,
			Fullname:  createdUser.Fullname,
			Username:  createdUser.Username,
			Telephone: createdUser.Telephone,
			Email:     createdUser.Email,
		}
		response.JSON(c, "signup successful", http.StatusCreated, resp, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "invalid request body", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		loginResp, apiErr := s.AuthService.LoginUser(&req)
		if apiErr != nil {
			response.JSON(c, "login failed", apiErr.Status, nil, []string{apiErr.Message})
			return
		}

		response.JSON(c, "login successful", http.StatusOK, loginResp, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := userFromContext(c)
		token := c.GetString("access_token")
		if user == nil || token == "" {
			response.JSON(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}

		if apiErr := s.AuthService.LogoutUser(token, user.Email); apiErr != nil {
			response.JSON(c, "logout failed", apiErr.Status, nil, []string{apiErr.Message})
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := userFromContext(c)
		if user == nil {
			response.JSON(c, "unauthorized", http.StatusUnauthorized, nil, nil)
			return
		}

		resp, apiErr := s.AuthService.GetUserByID(user.ID)
		if apiErr != nil {
			response.JSON(c, "could not fetch profile", apiErr.Status, nil, []string{apiErr.Message})
			return
		}
		response.JSON(c, "profile retrieved successfully", http.StatusOK, resp, nil)
	}
}

func (s *Server) handleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ForgotPassword
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "invalid request body", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}

		if apiErr := s.AuthService.RequestPasswordReset(req.Email); apiErr != nil {
			response.JSON(c, "could not request password reset", apiErr.Status, nil, []string{apiErr.Message})
			return
		}
		response.JSON(c, "if the email exists, a reset link has been sent", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.JSON(c, "missing reset token", http.StatusBadRequest, nil, nil)
			return
		}

		var req models.ResetPassword
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "invalid request body", http.StatusBadRequest, nil, []string{err.Error()})
			return
		}
		if req.Password != req.ConfirmPassword {
			response.JSON(c, "passwords do not match", http.StatusBadRequest, nil, nil)
			return
		}

		if apiErr := s.AuthService.ResetPassword(token, req.Password); apiErr != nil {
			response.JSON(c, "could not reset password", apiErr.Status, nil, []string{apiErr.Message})
			return
		}
		response.JSON(c, "password reset successful", http.StatusOK, nil, nil)
	}
}
