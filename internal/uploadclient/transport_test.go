package uploadclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testFileInfo(name string) FileInfo {
	return FileInfo{
		Name:    name,
		Size:    1024,
		ModTime: time.Unix(1700000000, 0),
		MIME:    "image/jpeg",
	}
}

// newUploadServer поднимает фейковый бекенд: health для прогрева и
// счётчик реальных загрузок.
func newUploadServer(t *testing.T, hits *int64, response string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			w.WriteHeader(http.StatusOK)
		case "/api/blogs/upload":
			atomic.AddInt64(hits, 1)
			if err := r.ParseMultipartForm(4 << 20); err != nil {
				t.Errorf("ошибка разбора формы: %v", err)
			}
			if _, _, err := r.FormFile("image"); err != nil {
				t.Errorf("в запросе нет поля image: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(response))
		default:
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
	}))
}

func TestUpload_ProgressReachesHundredOnSuccess(t *testing.T) {
	var hits int64
	srv := newUploadServer(t, &hits,
		`{"success":true,"imageUrl":"https://res.example.com/pic.jpg","public_id":"pic"}`,
		http.StatusOK)
	defer srv.Close()

	u := NewUploader(srv.URL)
	var seen []int
	res, err := u.Upload(context.Background(), testFileInfo("pic.jpg"), []byte("payload"), func(p int) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("ошибка загрузки: %v", err)
	}
	if res.URL != "https://res.example.com/pic.jpg" || res.PublicID != "pic" {
		t.Fatalf("неверный результат: %+v", res)
	}

	if len(seen) == 0 {
		t.Fatal("прогресс не сообщался")
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("прогресс должен строго расти: %v", seen)
		}
	}
	if seen[len(seen)-1] != 100 {
		t.Fatalf("успех должен завершаться ровно 100, получено: %d", seen[len(seen)-1])
	}
}

func TestUpload_SignatureDedupSkipsNetwork(t *testing.T) {
	var hits int64
	srv := newUploadServer(t, &hits,
		`{"success":true,"imageUrl":"https://res.example.com/pic.jpg","public_id":"pic"}`,
		http.StatusOK)
	defer srv.Close()

	u := NewUploader(srv.URL)
	info := testFileInfo("pic.jpg")

	first, err := u.Upload(context.Background(), info, []byte("payload"), nil)
	if err != nil {
		t.Fatalf("первая загрузка: %v", err)
	}

	var lastPercent int
	second, err := u.Upload(context.Background(), info, []byte("payload"), func(p int) { lastPercent = p })
	if err != nil {
		t.Fatalf("повторная загрузка: %v", err)
	}

	if atomic.LoadInt64(&hits) != 1 {
		t.Fatalf("повтор того же файла не должен ходить в сеть, запросов: %d", hits)
	}
	if second.URL != first.URL || second.PublicID != first.PublicID {
		t.Fatal("кэш вернул другой результат")
	}
	if lastPercent != 100 {
		t.Fatalf("кэшированный результат тоже завершается 100, получено: %d", lastPercent)
	}
}

func TestUpload_ChangedFileBypassesCache(t *testing.T) {
	var hits int64
	srv := newUploadServer(t, &hits,
		`{"success":true,"imageUrl":"https://res.example.com/pic.jpg","public_id":"pic"}`,
		http.StatusOK)
	defer srv.Close()

	u := NewUploader(srv.URL)
	info := testFileInfo("pic.jpg")
	if _, err := u.Upload(context.Background(), info, []byte("payload"), nil); err != nil {
		t.Fatalf("первая загрузка: %v", err)
	}

	info.ModTime = info.ModTime.Add(time.Second)
	if _, err := u.Upload(context.Background(), info, []byte("payload"), nil); err != nil {
		t.Fatalf("загрузка изменённого файла: %v", err)
	}
	if atomic.LoadInt64(&hits) != 2 {
		t.Fatalf("изменённый файл должен грузиться заново, запросов: %d", hits)
	}
}

func TestUpload_InsecureURLIsRejected(t *testing.T) {
	var hits int64
	srv := newUploadServer(t, &hits,
		`{"success":true,"imageUrl":"http://res.example.com/pic.jpg","public_id":"pic"}`,
		http.StatusOK)
	defer srv.Close()

	u := NewUploader(srv.URL)
	var seen []int
	_, err := u.Upload(context.Background(), testFileInfo("pic.jpg"), []byte("payload"), func(p int) {
		seen = append(seen, p)
	})
	if !errors.Is(err, ErrInvalidImageURL) {
		t.Fatalf("ожидалась ErrInvalidImageURL, получено: %v", err)
	}
	for _, p := range seen {
		if p == 100 {
			t.Fatal("при ошибке 100 эмититься не должно")
		}
	}
}

func TestUpload_ServerErrorNeverCompletes(t *testing.T) {
	var hits int64
	srv := newUploadServer(t, &hits, `{"success":false,"message":"ошибка"}`, http.StatusInternalServerError)
	defer srv.Close()

	u := NewUploader(srv.URL)
	var seen []int
	_, err := u.Upload(context.Background(), testFileInfo("pic.jpg"), []byte("payload"), func(p int) {
		seen = append(seen, p)
	})
	if !errors.Is(err, ErrUploadNetwork) {
		t.Fatalf("ожидалась ErrUploadNetwork, получено: %v", err)
	}
	for _, p := range seen {
		if p == 100 {
			t.Fatal("при ошибке 100 эмититься не должно")
		}
	}

	// Неудачная загрузка не кэшируется: следующая попытка идёт в сеть.
	_, _ = u.Upload(context.Background(), testFileInfo("pic.jpg"), []byte("payload"), nil)
	if atomic.LoadInt64(&hits) != 2 {
		t.Fatalf("после ошибки повтор должен идти в сеть, запросов: %d", hits)
	}
}

func TestUpload_SlowServerIsTimeoutNotCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			return
		}
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	u := NewUploader(srv.URL)
	u.HTTPClient = &http.Client{Timeout: 20 * time.Millisecond}

	var seen []int
	_, err := u.Upload(context.Background(), testFileInfo("pic.jpg"), []byte("payload"), func(p int) {
		seen = append(seen, p)
	})
	if !errors.Is(err, ErrUploadTimeout) {
		t.Fatalf("ожидалась ErrUploadTimeout, получено: %v", err)
	}
	if errors.Is(err, ErrUploadCanceled) {
		t.Fatal("таймаут не должен классифицироваться как отмена")
	}
	for _, p := range seen {
		if p == 100 {
			t.Fatal("при таймауте 100 эмититься не должно")
		}
	}
}

func TestUpload_CanceledContext(t *testing.T) {
	var hits int64
	srv := newUploadServer(t, &hits, `{}`, http.StatusOK)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := NewUploader(srv.URL)
	_, err := u.Upload(ctx, testFileInfo("pic.jpg"), []byte("payload"), nil)
	if !errors.Is(err, ErrUploadCanceled) {
		t.Fatalf("ожидалась ErrUploadCanceled, получено: %v", err)
	}
}
