// Package http 商品目录上下文的 HTTP 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/application"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/response"
	"github.com/wyfcoding/ecommerce/pkg/validation"
)

// CatalogHandler 分类与商品的 HTTP 处理器
type CatalogHandler struct {
	commands      *application.CatalogCommandService
	queries       *application.CatalogQueryService
	maxUploadSize int64
}

// NewCatalogHandler 创建 HTTP 处理器实例，maxUploadSize 为图片大小上限（字节）
func NewCatalogHandler(commands *application.CatalogCommandService, queries *application.CatalogQueryService, maxUploadSize int64) *CatalogHandler {
	return &CatalogHandler{
		commands:      commands,
		queries:       queries,
		maxUploadSize: maxUploadSize,
	}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}

	products := router.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
		products.POST("/:id/image", h.UploadProductImage)
	}
}

// CategoryRequest 创建或重命名分类请求
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// ProductRequest 创建或更新商品请求
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,max=160"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	Quantity    int             `json:"quantity" binding:"gte=0"`
	Shipping    decimal.Decimal `json:"shipping" binding:"gte=0"`
	CategoryID  string          `json:"category_id" binding:"required"`
}

func (r ProductRequest) spec() domain.ProductSpec {
	return domain.ProductSpec{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Shipping:    r.Shipping,
		CategoryID:  r.CategoryID,
	}
}

// CreateCategory 创建分类
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.commands.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, "Failed to create category", err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, dto)
}

// ListCategories 列出分类
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	dtos, err := h.queries.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list categories", err)
		return
	}
	response.Success(c, dtos)
}

// GetCategory 获取分类
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	dto, err := h.queries.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Failed to get category", err)
		return
	}
	if dto == nil {
		writeError(c, "", domain.ErrCategoryNotFound)
		return
	}
	response.Success(c, dto)
}

// UpdateCategory 重命名分类
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.commands.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		writeError(c, "Failed to update category", err)
		return
	}
	if dto == nil {
		writeError(c, "", domain.ErrCategoryNotFound)
		return
	}
	response.Success(c, dto)
}

// DeleteCategory 删除分类及其商品
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.commands.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to delete category", err)
		return
	}
	if !deleted {
		writeError(c, "", domain.ErrCategoryNotFound)
		return
	}
	response.Success(c, gin.H{"id": id, "deleted": true})
}

// CreateProduct 创建商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.commands.CreateProduct(c.Request.Context(), req.spec())
	if err != nil {
		writeError(c, "Failed to create product", err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, dto)
}

// ListProducts 列出商品
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	dtos, err := h.queries.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list products", err)
		return
	}
	response.Success(c, dtos)
}

// GetProduct 获取商品
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	dto, err := h.queries.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Failed to get product", err)
		return
	}
	if dto == nil {
		writeError(c, "", domain.ErrProductNotFound)
		return
	}
	response.Success(c, dto)
}

// UpdateProduct 更新商品
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", validation.Message(err))
		return
	}

	dto, err := h.commands.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		ID:          c.Param("id"),
		ProductSpec: req.spec(),
	})
	if err != nil {
		writeError(c, "Failed to update product", err)
		return
	}
	if dto == nil {
		writeError(c, "", domain.ErrProductNotFound)
		return
	}
	response.Success(c, dto)
}

// DeleteProduct 删除商品
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.commands.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to delete product", err)
		return
	}
	if !deleted {
		writeError(c, "", domain.ErrProductNotFound)
		return
	}
	response.Success(c, gin.H{"id": id, "deleted": true})
}

// UploadProductImage 上传商品图片，表单字段为 image
func (h *CatalogHandler) UploadProductImage(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	header, err := c.FormFile("image")
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", "image file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	defer file.Close()

	dto, err := h.commands.UploadProductImage(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		writeError(c, "Failed to upload product image", err)
		return
	}
	if dto == nil {
		writeError(c, "", domain.ErrProductNotFound)
		return
	}
	response.Success(c, dto)
}

// writeError 将领域错误映射为 HTTP 状态码
func writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCatalog):
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, domain.ErrCategoryNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "category not found", "")
	case errors.Is(err, domain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
	case errors.Is(err, domain.ErrConflict):
		response.ErrorWithStatus(c, http.StatusConflict, "catalog conflict", "")
	case errors.Is(err, domain.ErrMediaUnavailable):
		response.ErrorWithStatus(c, http.StatusServiceUnavailable, "media storage not configured", "")
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "")
	}
}
