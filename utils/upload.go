// utils/upload.go
package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"zaymart-backend/models"
)

// Uploader pushes product images to Cloudinary and hands back their URLs.
type Uploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewUploader initializes the Cloudinary client from CLOUDINARY_URL.
func NewUploader() *Uploader {
	url := os.Getenv("CLOUDINARY_URL")
	if url == "" {
		panic("CLOUDINARY_URL is not set in environment variables")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize cloudinary: %v", err))
	}
	return &Uploader{cld: cld, folder: "products"}
}

// UploadImage uploads a single image and returns its public URL.
func (u *Uploader) UploadImage(ctx context.Context, file multipart.File) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: uuid.NewString(),
		Folder:   u.folder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return resp.SecureURL, nil
}

// UploadProductImages uploads up to MaxProductImages files, ignoring the rest.
func (u *Uploader) UploadProductImages(ctx context.Context, headers []*multipart.FileHeader) ([]string, error) {
	if len(headers) > models.MaxProductImages {
		headers = headers[:models.MaxProductImages]
	}

	urls := make([]string, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		url, err := u.UploadImage(ctx, file)
		file.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
