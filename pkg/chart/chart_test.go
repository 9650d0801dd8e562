package chart

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_usage.png")

	usage := map[string]int{
		"gpt-3.5-turbo":           142,
		"claude-3-haiku-20240307": 98,
		"distilgpt2":              35,
	}
	if err := Render(usage, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open chart: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Error("expected a non-empty image")
	}
}

func TestRenderRejectsEmptyUsage(t *testing.T) {
	if err := Render(nil, filepath.Join(t.TempDir(), "empty.png")); err == nil {
		t.Fatal("expected error for empty usage")
	}
}
