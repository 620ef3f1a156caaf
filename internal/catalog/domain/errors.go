package domain

import "errors"

var (
	// ErrInvalidCatalog 分类或商品字段不合法
	ErrInvalidCatalog = errors.New("invalid catalog entry")
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrConflict 名称重复、分类不存在或商品仍被订单引用
	ErrConflict = errors.New("catalog conflict")
	// ErrStorage 存储层故障
	ErrStorage = errors.New("catalog storage failure")
	// ErrMediaUnavailable 未配置图片存储
	ErrMediaUnavailable = errors.New("media storage not configured")
)
