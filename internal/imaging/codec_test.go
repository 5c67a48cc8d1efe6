package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(t *testing.T, w, h int) image.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestReencodeJPEGNormalizesFormat(t *testing.T) {
	src := encodePNG(t, testImage(t, 64, 48))

	out, err := ReencodeJPEG(src, 90)
	if err != nil {
		t.Fatalf("ReencodeJPEG: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", cfg.Width, cfg.Height)
	}
}

func TestReencodeJPEGRejectsGarbage(t *testing.T) {
	if _, err := ReencodeJPEG([]byte("definitely not pixels"), 90); err == nil {
		t.Error("garbage input accepted")
	}
}

func TestThumbnailIsSquare(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"landscape", 320, 100},
		{"portrait", 100, 320},
		{"square", 200, 200},
		{"tiny", 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := encodePNG(t, testImage(t, tt.w, tt.h))

			out, err := Thumbnail(src, 120, 85)
			if err != nil {
				t.Fatalf("Thumbnail: %v", err)
			}

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("thumbnail is not a JPEG: %v", err)
			}
			if cfg.Width != 120 || cfg.Height != 120 {
				t.Errorf("thumbnail = %dx%d, want 120x120", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestFilenameHelpers(t *testing.T) {
	if got := FilenameFromURL("/uploads/originals/abc-123.jpg"); got != "abc-123.jpg" {
		t.Errorf("FilenameFromURL = %q", got)
	}
	if got := OriginalURL("f.jpg"); got != "/uploads/originals/f.jpg" {
		t.Errorf("OriginalURL = %q", got)
	}
	if got := ThumbnailURL("f.jpg"); got != "/uploads/thumbnails/f.jpg" {
		t.Errorf("ThumbnailURL = %q", got)
	}

	a, b := ImportFilename(".png"), ImportFilename(".png")
	if a == b {
		t.Errorf("ImportFilename returned duplicate %q", a)
	}
	if ext := a[len(a)-4:]; ext != ".png" {
		t.Errorf("ImportFilename lost extension: %q", a)
	}
	if def := ImportFilename(""); def[len(def)-4:] != ".jpg" {
		t.Errorf("ImportFilename default extension: %q", def)
	}
}
