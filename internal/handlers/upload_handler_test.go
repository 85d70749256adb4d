package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio/internal/services"
)

func fakeImageHost(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func uploadHandlerFor(srv *httptest.Server) *UploadHandler {
	storage := services.NewCloudinaryService("demo", "key", "secret")
	storage.BaseURL = srv.URL
	storage.HTTPClient = srv.Client()
	return NewUploadHandler(storage)
}

// multipartImage собирает запрос с настоящим PNG, чтобы DetectContentType
// отработал как в бою.
func multipartImage(t *testing.T, field string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "pic.png")
	if err != nil {
		t.Fatalf("ошибка сборки формы: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("ошибка записи файла в форму: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("ошибка кодирования PNG: %v", err)
	}
	return buf.Bytes()
}

func TestUploadImage_Success(t *testing.T) {
	srv := fakeImageHost(t, http.StatusOK,
		`{"secure_url":"https://res.example.com/demo/pic.jpg","public_id":"demo/pic"}`)
	defer srv.Close()

	rec := httptest.NewRecorder()
	uploadHandlerFor(srv).UploadImage(rec, multipartImage(t, "image", tinyPNG(t)))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получено: %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success  bool   `json:"success"`
		ImageURL string `json:"imageUrl"`
		PublicID string `json:"public_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	if !resp.Success || resp.ImageURL != "https://res.example.com/demo/pic.jpg" || resp.PublicID != "demo/pic" {
		t.Fatalf("неверное тело ответа: %s", rec.Body.String())
	}
}

func TestUploadImage_MissingFileField(t *testing.T) {
	srv := fakeImageHost(t, http.StatusOK, `{}`)
	defer srv.Close()

	rec := httptest.NewRecorder()
	uploadHandlerFor(srv).UploadImage(rec, multipartImage(t, "file", tinyPNG(t)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("без поля image ожидался 400, получено: %d", rec.Code)
	}
}

func TestUploadImage_RejectsNonImagePayload(t *testing.T) {
	srv := fakeImageHost(t, http.StatusOK, `{}`)
	defer srv.Close()

	rec := httptest.NewRecorder()
	uploadHandlerFor(srv).UploadImage(rec, multipartImage(t, "image", []byte("просто текст, не картинка")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("текстовый файл должен отклоняться с 400, получено: %d", rec.Code)
	}
}

func TestUploadImage_StorageUnauthorizedIs503(t *testing.T) {
	srv := fakeImageHost(t, http.StatusUnauthorized, `{}`)
	defer srv.Close()

	rec := httptest.NewRecorder()
	uploadHandlerFor(srv).UploadImage(rec, multipartImage(t, "image", tinyPNG(t)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("отказ хранилища по учётным данным должен давать 503, получено: %d", rec.Code)
	}
}

func TestUploadImage_StorageTimeoutIs408(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	storage := services.NewCloudinaryService("demo", "key", "secret")
	storage.BaseURL = srv.URL
	storage.HTTPClient = &http.Client{Timeout: 20 * time.Millisecond}

	rec := httptest.NewRecorder()
	NewUploadHandler(storage).UploadImage(rec, multipartImage(t, "image", tinyPNG(t)))

	if rec.Code != http.StatusRequestTimeout {
		t.Fatalf("таймаут хранилища должен давать 408, получено: %d", rec.Code)
	}
}

func TestUploadImage_StorageErrorIs500(t *testing.T) {
	srv := fakeImageHost(t, http.StatusBadGateway, `{}`)
	defer srv.Close()

	rec := httptest.NewRecorder()
	uploadHandlerFor(srv).UploadImage(rec, multipartImage(t, "image", tinyPNG(t)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("прочие ошибки хранилища дают 500, получено: %d", rec.Code)
	}
}
