// Package uploadclient — Go-клиент конвейера публикации блога: подготовка
// картинки (сжатие) и её доставка на эндпоинт загрузки с прогрессом.
package uploadclient

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedType = errors.New("неподдерживаемый тип файла: ожидается jpeg, png, webp или gif")
	ErrDecodeFailed    = errors.New("не удалось декодировать изображение")
	ErrEncodeFailed    = errors.New("не удалось закодировать изображение")
)

const (
	maxImageWidth = 1920
	jpegQuality   = 75

	// Порог предупреждения, не отказа: большой файл всё равно сжимаем.
	sizeWarnThreshold = 10 << 20 // 10MB
)

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type PreprocessResult struct {
	// Data — всегда JPEG, независимо от исходного формата.
	Data        []byte
	ContentType string

	OriginalSize   int
	CompressedSize int
	Width          int
	Height         int

	// SizeWarning выставляется для файлов крупнее порога.
	SizeWarning bool
}

// Preprocess проверяет тип файла и пережимает картинку: даунсемпл до ширины
// 1920px с сохранением пропорций, перекодирование в JPEG. Преобразование
// одностороннее, отката к оригиналу при ошибке нет.
func Preprocess(src io.Reader, mimeType string) (*PreprocessResult, error) {
	if !allowedMIMETypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncodeFailed
	}

	return &PreprocessResult{
		Data:           buf.Bytes(),
		ContentType:    "image/jpeg",
		OriginalSize:   len(raw),
		CompressedSize: buf.Len(),
		Width:          w,
		Height:         h,
		SizeWarning:    len(raw) > sizeWarnThreshold,
	}, nil
}
