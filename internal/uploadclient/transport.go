package uploadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	ErrUploadTimeout   = errors.New("загрузка прервана по таймауту")
	ErrUploadCanceled  = errors.New("загрузка отменена")
	ErrUploadNetwork   = errors.New("сетевая ошибка при загрузке")
	ErrInvalidImageURL = errors.New("сервер вернул некорректный URL изображения")
)

const uploadTimeout = 300 * time.Second

// Границы шкалы прогресса: передача по сети занимает 5–90, обработка
// на сервере 90–95, успех — ровно 100. При ошибке 100 не эмитится никогда.
const (
	progressStart      = 5
	progressTransfer   = 90
	progressProcessing = 95
	progressDone       = 100
)

// ProgressFunc получает неубывающий процент от 0 до 100.
type ProgressFunc func(percent int)

// FileInfo описывает выбранный файл для подписи дедупликации.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	MIME    string
}

// Signature — ключ дедупликации: повторная отправка того же файла в рамках
// одной сессии не ходит в сеть.
func (f FileInfo) Signature() string {
	return fmt.Sprintf("%s|%d|%d|%s", f.Name, f.Size, f.ModTime.UnixNano(), f.MIME)
}

// UploadedImage — подтверждённый сервером результат загрузки.
type UploadedImage struct {
	URL      string
	PublicID string
}

type Uploader struct {
	BaseURL    string
	HTTPClient *http.Client

	mu       sync.Mutex
	cache    map[string]UploadedImage
	warmOnce sync.Once
}

func NewUploader(baseURL string) *Uploader {
	return &Uploader{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		cache:      make(map[string]UploadedImage),
	}
}

// WarmUp — необязательная прогревочная проба бекенда от холодного старта.
// Любая её ошибка игнорируется и на загрузку не влияет.
func (u *Uploader) WarmUp(ctx context.Context) {
	u.warmOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.BaseURL+"/api/health", nil)
		if err != nil {
			return
		}
		resp, err := u.HTTPClient.Do(req)
		if err != nil {
			return
		}
		resp.Body.Close()
	})
}

// Upload отправляет файл на эндпоинт загрузки и сообщает прогресс.
// Повторная загрузка файла с той же подписью возвращает кэшированный URL.
func (u *Uploader) Upload(ctx context.Context, info FileInfo, data []byte, progress ProgressFunc) (*UploadedImage, error) {
	report := newMonotonicProgress(progress)

	sig := info.Signature()
	u.mu.Lock()
	if cached, ok := u.cache[sig]; ok {
		u.mu.Unlock()
		report(progressDone)
		return &cached, nil
	}
	u.mu.Unlock()

	u.WarmUp(ctx)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", info.Name)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	report(progressStart)
	reader := &progressReader{
		r:      bytes.NewReader(body.Bytes()),
		total:  int64(body.Len()),
		report: report,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/api/blogs/upload", reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = int64(body.Len())

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return nil, classifyUploadError(ctx, err)
	}
	defer resp.Body.Close()

	report(progressTransfer)

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: статус %d: %s", ErrUploadNetwork, resp.StatusCode, raw)
	}

	var parsed struct {
		Success  bool   `json:"success"`
		ImageURL string `json:"imageUrl"`
		PublicID string `json:"public_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadNetwork, err)
	}

	report(progressProcessing)

	// Политика едина с сервером: только абсолютный https, даже при HTTP 200.
	if !strings.HasPrefix(parsed.ImageURL, "https://") {
		return nil, ErrInvalidImageURL
	}

	result := UploadedImage{URL: parsed.ImageURL, PublicID: parsed.PublicID}
	u.mu.Lock()
	u.cache[sig] = result
	u.mu.Unlock()

	report(progressDone)
	return &result, nil
}

func classifyUploadError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ErrUploadCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUploadTimeout
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return ErrUploadTimeout
	}
	return fmt.Errorf("%w: %v", ErrUploadNetwork, err)
}

// newMonotonicProgress гарантирует неубывающую последовательность процентов.
func newMonotonicProgress(progress ProgressFunc) func(int) {
	last := -1
	return func(p int) {
		if progress == nil || p <= last {
			return
		}
		last = p
		progress(p)
	}
}

// progressReader маппит прочитанные байты тела на диапазон 5–90.
type progressReader struct {
	r      *bytes.Reader
	total  int64
	sent   int64
	report func(int)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.sent += int64(n)
	if pr.total > 0 {
		span := int64(progressTransfer - progressStart)
		pr.report(progressStart + int(pr.sent*span/pr.total))
	}
	return n, err
}
