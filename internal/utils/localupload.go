package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UploadBasePath = "./uploads"
	PhotosPath     = "./uploads/photos"
	DocumentsPath  = "./uploads/documents"
	OthersPath     = "./uploads/others"
)

func InitLocalStorage() error {
	directories := []string{
		UploadBasePath,
		PhotosPath,
		DocumentsPath,
		OthersPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

func folderForType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return PhotosPath
	case contentType == "application/pdf":
		return DocumentsPath
	default:
		return OthersPath
	}
}

func UploadToLocal(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.NewString(), ext)

	dir := folderForType(file.Header.Get("Content-Type"))
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/" + strings.TrimPrefix(dstPath, "./"), nil
}

func DeleteLocalFile(url string) error {
	if !strings.HasPrefix(url, "/uploads/") {
		return nil
	}
	return os.Remove("." + url)
}
