package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileUploadResult describes a stored attachment.
type FileUploadResult struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// UploadAttachment pushes the file bytes to the S3-compatible object store
// (STORAGE_URL/STORAGE_BUCKET/STORAGE_KEY env vars) and returns the stable
// public URL.
func UploadAttachment(file multipart.File, header *multipart.FileHeader) (*FileUploadResult, error) {
	baseURL := os.Getenv("STORAGE_URL")
	bucket := os.Getenv("STORAGE_BUCKET")
	apiKey := os.Getenv("STORAGE_KEY")
	if baseURL == "" || bucket == "" || apiKey == "" {
		return nil, fmt.Errorf("object storage is not configured")
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(fileBytes)
	}
	if !allowedUploadTypes[contentType] {
		return nil, fmt.Errorf("unsupported attachment type %s", contentType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := fmt.Sprintf("complaints/%s/%s%s",
		time.Now().Format("2006/01"), uuid.NewString(), ext)

	req, err := http.NewRequest("POST",
		fmt.Sprintf("%s/object/%s/%s", baseURL, bucket, path),
		bytes.NewReader(fileBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", contentType)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("storage rejected upload: %d %s", resp.StatusCode, string(body))
	}

	return &FileUploadResult{
		Path:        path,
		URL:         GetPublicURL(path),
		ContentType: contentType,
		Size:        int64(len(fileBytes)),
	}, nil
}

// GetPublicURL returns the stable public URL for a stored object path.
func GetPublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s",
		os.Getenv("STORAGE_URL"), os.Getenv("STORAGE_BUCKET"), path)
}
