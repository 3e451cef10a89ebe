// Package mediasvc uploads event flyers.
package mediasvc

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
)

const uploadTimeout = 60 * time.Second

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

var _ core.FileUploader = (*cloudinaryUploader)(nil)

func NewCloudinaryUploader(conf *core.Config) (core.FileUploader, error) {
	cc := conf.Cloudinary
	cld, err := cloudinary.NewFromParams(cc.CloudName, cc.ApiKey, cc.ApiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary config")
	}
	return &cloudinaryUploader{cld: cld, folder: cc.Folder}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         u.folder,
		PublicID:       publicID(filename),
		UniqueFilename: boolPtr(true),
	})
	if err != nil {
		return "", errors.Wrap(err, "cloudinary upload")
	}
	if resp.Error.Message != "" {
		return "", errors.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// publicID is the file's base name without extension, "" to let cloudinary pick one.
func publicID(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "." || base == "/" {
		return ""
	}
	return core.CleanString(base)
}

func boolPtr(b bool) *bool { return &b }
