package assets

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Jefrey05/sistema-gestion/pkg/config"
)

// CloudinaryClient implements Store against the Cloudinary upload API using
// signed requests.
type CloudinaryClient struct {
	CloudName  string
	APIKey     string
	APISecret  string
	BaseURL    string
	HTTPClient *http.Client
}

// NewCloudinaryClient creates a Cloudinary-backed asset store
func NewCloudinaryClient(conf *config.CloudinaryConfig) *CloudinaryClient {
	return &CloudinaryClient{
		CloudName:  conf.CloudName,
		APIKey:     conf.APIKey,
		APISecret:  conf.APISecret,
		BaseURL:    "https://api.cloudinary.com/v1_1",
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Upload sends the image to Cloudinary and returns its secure URL
func (c *CloudinaryClient) Upload(ctx context.Context, content []byte, folder, publicID string) (string, error) {
	params := map[string]string{
		"folder":    folder,
		"overwrite": "true",
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return "", err
		}
	}
	if err := writer.WriteField("api_key", c.APIKey); err != nil {
		return "", err
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("file", publicID)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.BaseURL, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result uploadResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("cloudinary upload: unexpected response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary upload failed (%d): %s", resp.StatusCode, result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: response missing secure_url")
	}

	return result.SecureURL, nil
}

// Delete removes the asset from Cloudinary
func (c *CloudinaryClient) Delete(ctx context.Context, publicID string) (bool, error) {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", c.APIKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.BaseURL, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("cloudinary destroy request failed: %w", err)
	}
	defer resp.Body.Close()

	var result destroyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("cloudinary destroy: unexpected response: %w", err)
	}

	return result.Result == "ok", nil
}

// sign produces the Cloudinary API signature: SHA-1 over the sorted
// key=value parameter string concatenated with the API secret.
func (c *CloudinaryClient) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.APISecret))
	return hex.EncodeToString(sum[:])
}
