// Package http 用户上下文的 HTTP 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/user/application"
	"github.com/wyfcoding/ecommerce/internal/user/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/response"
	"github.com/wyfcoding/ecommerce/pkg/validation"
)

// UserHandler HTTP 处理器
type UserHandler struct {
	service *application.UserService
}

// NewUserHandler 创建 HTTP 处理器实例
func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/users")
	{
		api.POST("", h.Register)
		api.POST("/login", h.Login)
		api.GET("", h.ListUsers)
		api.GET("/:id", h.GetUser)
		api.PUT("/:id", h.UpdateUser)
		api.PATCH("/:id/ban", h.BanUser)
		api.PATCH("/:id/unban", h.UnbanUser)
		api.DELETE("/:id", h.DeleteUser)
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Address  string `json:"address" binding:"max=255"`
	Image    string `json:"image"`
}

// UpdateRequest 更新资料请求，password 为空时不修改密码
type UpdateRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Address  string `json:"address" binding:"max=255"`
	Image    string `json:"image"`
	Password string `json:"password" binding:"omitempty,min=6,max=72"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册用户
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.service.Register(c.Request.Context(), application.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Image:    req.Image,
	})
	if err != nil {
		writeError(c, "Failed to register user", err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, dto)
}

// Login 校验邮箱与密码
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, "Failed to authenticate user", err)
		return
	}
	response.Success(c, dto)
}

// ListUsers 列出用户
func (h *UserHandler) ListUsers(c *gin.Context) {
	dtos, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list users", err)
		return
	}
	response.Success(c, dtos)
}

// GetUser 获取用户
func (h *UserHandler) GetUser(c *gin.Context) {
	dto, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	h.respond(c, "Failed to get user", dto, err)
}

// UpdateUser 更新用户资料
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.service.UpdateUser(c.Request.Context(), application.UpdateUserCommand{
		ID:       c.Param("id"),
		Name:     req.Name,
		Address:  req.Address,
		Image:    req.Image,
		Password: req.Password,
	})
	h.respond(c, "Failed to update user", dto, err)
}

// BanUser 封禁用户
func (h *UserHandler) BanUser(c *gin.Context) {
	dto, err := h.service.BanUser(c.Request.Context(), c.Param("id"))
	h.respond(c, "Failed to ban user", dto, err)
}

// UnbanUser 解封用户
func (h *UserHandler) UnbanUser(c *gin.Context) {
	dto, err := h.service.UnbanUser(c.Request.Context(), c.Param("id"))
	h.respond(c, "Failed to unban user", dto, err)
}

// DeleteUser 删除用户
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.service.DeleteUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to delete user", err)
		return
	}
	if !deleted {
		writeError(c, "", domain.ErrUserNotFound)
		return
	}
	response.Success(c, gin.H{"id": id, "deleted": true})
}

func (h *UserHandler) respond(c *gin.Context, msg string, dto *application.UserDTO, err error) {
	if err != nil {
		writeError(c, msg, err)
		return
	}
	if dto == nil {
		writeError(c, msg, domain.ErrUserNotFound)
		return
	}
	response.Success(c, dto)
}

// writeError 将领域错误映射为 HTTP 状态码
func writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidUser):
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid credentials", "")
	case errors.Is(err, domain.ErrUserNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "user not found", "")
	case errors.Is(err, domain.ErrConflict):
		response.ErrorWithStatus(c, http.StatusConflict, "user conflicts with existing data", "")
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "")
	}
}
