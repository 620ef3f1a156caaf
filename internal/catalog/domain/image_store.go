package domain

import (
	"context"
	"io"
)

// ImageStore 商品图片存储，返回可公开访问的 URL
type ImageStore interface {
	Upload(ctx context.Context, publicID string, file io.Reader) (string, error)
}
