// Package media 商品图片存储
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryStore 基于 Cloudinary 的图片存储
type CloudinaryStore struct {
	uploader uploadAPI
	folder   string
}

// NewCloudinaryStore 根据 CLOUDINARY_URL 格式的连接串创建图片存储
func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &CloudinaryStore{uploader: &cld.Upload, folder: folder}, nil
}

var _ domain.ImageStore = (*CloudinaryStore)(nil)

// Upload 上传图片，同一 publicID 覆盖旧图
func (s *CloudinaryStore) Upload(ctx context.Context, publicID string, file io.Reader) (string, error) {
	res, err := s.uploader.Upload(ctx, file, uploader.UploadParams{
		PublicID:  publicID,
		Folder:    s.folder,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	logger.Info(ctx, "Product image uploaded", "public_id", res.PublicID, "bytes", res.Bytes)
	return res.SecureURL, nil
}
