// Package httpapi REST API поверх сервисов слотов, броней и аккаунтов.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/apperror"
	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errNotOwner = apperror.Forbidden("access denied")

type Handler struct {
	auth     AuthAPI
	teachers TeacherAPI
	students StudentAPI
	slots    SlotAPI
	bookings BookingAPI
	issuer   *auth.Issuer
	db       Pinger
	logger   *zap.Logger
}

type Deps struct {
	Auth     AuthAPI
	Teachers TeacherAPI
	Students StudentAPI
	Slots    SlotAPI
	Bookings BookingAPI
	Issuer   *auth.Issuer
	DB       Pinger
}

func NewHandler(d Deps, logger *zap.Logger) *Handler {
	return &Handler{
		auth:     d.Auth,
		teachers: d.Teachers,
		students: d.Students,
		slots:    d.Slots,
		bookings: d.Bookings,
		issuer:   d.Issuer,
		db:       d.DB,
		logger:   logger,
	}
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "down"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}

type loginRequest struct {
	Role     model.Role `json:"role" binding:"required,oneof=teacher student"`
	Login    string     `json:"login" binding:"required"`
	Password string     `json:"password" binding:"required"`
}

// Login POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Role, req.Login, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// requireSelf проверяет, что вызывающий - этот же пользователь этой роли
func requireSelf(c *gin.Context, role model.Role, id int64) error {
	claims := claimsFrom(c)
	if claims == nil || claims.Role != role || callerID(c) != id {
		return errNotOwner
	}
	return nil
}

// bindJSON false - ответ с ошибкой уже отправлен
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, bindingMessage(err))
		return false
	}
	return true
}
