package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// --- request/response DTOs ---

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authData struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

type authResponse struct {
	Success bool     `json:"success"`
	Data    authData `json:"data"`
}

type userData struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type userResponse struct {
	Success bool     `json:"success"`
	Data    userData `json:"data"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// --- handlers ---

func (s *Server) register(c *gin.Context) {

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	s.logger.Info(c.Request.Context(), "Registration request")

	token, err := s.users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, common.ErrorEmailAlreadyExists) {
			writeError(c, http.StatusConflict, "USER_ALREADY_EXISTS", "user already exists with this email")
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an error occurred during registration")
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "email", req.Email)
	s.writeAuthResponse(c, token)
}

func (s *Server) login(c *gin.Context) {

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an error occurred during authentication")
		return
	}

	s.writeAuthResponse(c, token)
}

func (s *Server) getCurrentUser(c *gin.Context) {
	id, err := uuid.Parse(c.GetString(userIDKey))
	if err != nil {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
		return
	}

	s.writeUser(c, id)
}

func (s *Server) getUserByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return
	}

	s.writeUser(c, id)
}

func (s *Server) healthCheck(c *gin.Context) {
	dbStatus := "connected"
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, healthResponse{Status: "healthy", Database: dbStatus})
}

// --- helpers ---

func (s *Server) writeUser(c *gin.Context, id uuid.UUID) {
	user, err := s.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(c, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "a database error occurred")
		return
	}

	c.JSON(http.StatusOK, userResponse{
		Success: true,
		Data: userData{
			ID:        user.ID.String(),
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
	})
}

func (s *Server) writeAuthResponse(c *gin.Context, token string) {
	c.JSON(http.StatusOK, authResponse{
		Success: true,
		Data: authData{
			Token:     token,
			TokenType: "Bearer",
			ExpiresIn: int64(s.codec.Validity().Seconds()),
		},
	})
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Success: false,
		Error:   errorBody{Message: message, Code: code},
	})
}
