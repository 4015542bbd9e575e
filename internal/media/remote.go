package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// RemoteUploader proxies files to the hosted media service and stores only
// the URL it hands back.
type RemoteUploader struct {
	UploadURL string
	APIKey    string
	Client    *http.Client
}

func NewRemoteUploader(uploadURL, apiKey string) *RemoteUploader {
	return &RemoteUploader{
		UploadURL: uploadURL,
		APIKey:    apiKey,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type remoteUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

func (u *RemoteUploader) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if _, err := validateImage(file); err != nil {
		return "", err
	}

	in, err := file.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, in); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.UploadURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+u.APIKey)

	resp, err := u.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("media upload failed with status %d: %s", resp.StatusCode, payload)
	}

	var parsed remoteUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("media upload response decode failed: %w", err)
	}

	if parsed.SecureURL != "" {
		return parsed.SecureURL, nil
	}
	if parsed.URL != "" {
		return parsed.URL, nil
	}
	return "", fmt.Errorf("media upload response missing url")
}
