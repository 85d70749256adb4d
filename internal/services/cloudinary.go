package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

var (
	ErrImageHostTimeout      = errors.New("хранилище изображений не ответило вовремя")
	ErrImageHostUnauthorized = errors.New("хранилище изображений отклонило учётные данные")
	ErrImageHostFailed       = errors.New("ошибка хранилища изображений")
)

const cloudinaryTimeout = 30 * time.Second

type CloudinaryService struct {
	CloudName  string
	APIKey     string
	APISecret  string
	HTTPClient *http.Client

	// BaseURL переопределяется в тестах.
	BaseURL string
}

// UploadResult — нормализованный ответ хранилища: ровно один URL и идентификатор
// для последующего удаления, независимо от того, как их называет бекенд хранилища.
type UploadResult struct {
	URL      string `json:"imageUrl"`
	PublicID string `json:"public_id"`
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) *CloudinaryService {
	return &CloudinaryService{
		CloudName:  cloudName,
		APIKey:     apiKey,
		APISecret:  apiSecret,
		HTTPClient: &http.Client{Timeout: cloudinaryTimeout},
		BaseURL:    "https://api.cloudinary.com/v1_1",
	}
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
}

// Upload отправляет файл в Cloudinary и возвращает нормализованный результат.
func (s *CloudinaryService) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{"timestamp": ts}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	_ = mw.WriteField("api_key", s.APIKey)
	_ = mw.WriteField("timestamp", ts)
	_ = mw.WriteField("signature", s.sign(params))
	if err := mw.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", s.BaseURL, s.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrImageHostUnauthorized
	case resp.StatusCode >= 400:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: статус %d: %s", ErrImageHostFailed, resp.StatusCode, raw)
	}

	var res cloudinaryUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageHostFailed, err)
	}

	// Разные бекенды отдают url/secure_url — наружу уходит только secure-вариант.
	u := res.SecureURL
	if u == "" {
		u = res.URL
	}
	if u == "" || res.PublicID == "" {
		return nil, fmt.Errorf("%w: в ответе нет URL или public_id", ErrImageHostFailed)
	}

	return &UploadResult{URL: u, PublicID: res.PublicID}, nil
}

// Destroy удаляет ранее загруженное изображение по его идентификатору.
func (s *CloudinaryService) Destroy(ctx context.Context, publicID string) error {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": ts,
	}

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", ts)
	form.Set("api_key", s.APIKey)
	form.Set("signature", s.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", s.BaseURL, s.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrImageHostUnauthorized
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: статус %d", ErrImageHostFailed, resp.StatusCode)
	}

	var res struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("%w: %v", ErrImageHostFailed, err)
	}
	// "not found" не считаем ошибкой: картинки уже нет.
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("%w: result=%s", ErrImageHostFailed, res.Result)
	}
	return nil
}

// Ping проверяет доступность хранилища и валидность учётных данных.
func (s *CloudinaryService) Ping(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/%s/ping", s.BaseURL, s.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.APIKey, s.APISecret)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrImageHostUnauthorized
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: статус %d", ErrImageHostFailed, resp.StatusCode)
	}
	return nil
}

// sign подписывает параметры запроса по схеме Cloudinary:
// sha1(отсортированные key=value через & + api_secret), hex.
func (s *CloudinaryService) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb bytes.Buffer
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	sb.WriteString(s.APISecret)

	sum := sha1.Sum(sb.Bytes())
	return hex.EncodeToString(sum[:])
}

func classifyTransportError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return ErrImageHostTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrImageHostTimeout
	}
	return fmt.Errorf("%w: %v", ErrImageHostFailed, err)
}
