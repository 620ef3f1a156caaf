package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	params uploader.UploadParams
	result *uploader.UploadResult
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, _ interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	return f.result, f.err
}

func TestUploadReturnsSecureURL(t *testing.T) {
	fake := &fakeUploader{result: &uploader.UploadResult{
		PublicID:  "products/p1",
		SecureURL: "https://res.cloudinary.com/demo/image/upload/products/p1.jpg",
	}}
	store := &CloudinaryStore{uploader: fake, folder: "products"}

	url, err := store.Upload(context.Background(), "p1", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/products/p1.jpg", url)
	assert.Equal(t, "p1", fake.params.PublicID)
	assert.Equal(t, "products", fake.params.Folder)
	require.NotNil(t, fake.params.Overwrite)
	assert.True(t, *fake.params.Overwrite)
}

func TestUploadErrors(t *testing.T) {
	store := &CloudinaryStore{uploader: &fakeUploader{err: errors.New("timeout")}}
	_, err := store.Upload(context.Background(), "p1", strings.NewReader("img"))
	assert.ErrorContains(t, err, "timeout")

	store = &CloudinaryStore{uploader: &fakeUploader{result: &uploader.UploadResult{
		Error: api.ErrorResp{Message: "Invalid image file"},
	}}}
	_, err = store.Upload(context.Background(), "p1", strings.NewReader("img"))
	assert.ErrorContains(t, err, "Invalid image file")
}
