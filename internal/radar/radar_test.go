package radar

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
)

func TestTileForCoords(t *testing.T) {
	// Monroe, WA at zoom 8 lands on the known tile for that area.
	x, y := TileForCoords(47.8557, -121.9715, 8)
	if x != 41 || y != 89 {
		t.Fatalf("expected tile 41/89, got %d/%d", x, y)
	}

	// Null island maps to the exact center of the tile grid.
	x, y = TileForCoords(0, 0, 1)
	if x != 1 || y != 1 {
		t.Fatalf("expected tile 1/1, got %d/%d", x, y)
	}
}

func encodeGray(t *testing.T, pixels [][]uint8) []byte {
	t.Helper()
	h := len(pixels)
	w := len(pixels[0])
	img := image.NewGray(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			img.SetGray(col, row, color.Gray{Y: pixels[row][col]})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFrameNormalizesIntensity(t *testing.T) {
	data := encodeGray(t, [][]uint8{
		{0, 50},
		{100, 255},
	})

	f, err := DecodeFrame(data, "http://example/tile.png", 8, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	grid := f.Sample(2, 2)
	if grid[0][0] != 0 {
		t.Fatalf("expected zero intensity, got %f", grid[0][0])
	}
	if grid[0][1] < 0.45 || grid[0][1] > 0.55 {
		t.Fatalf("expected ~0.5 intensity, got %f", grid[0][1])
	}
	if grid[1][0] < 0.95 {
		t.Fatalf("expected saturated intensity, got %f", grid[1][0])
	}
	if grid[1][1] != 1 {
		t.Fatalf("expected clamped intensity 1, got %f", grid[1][1])
	}
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	if _, err := DecodeFrame([]byte("not a png"), "", 8, 0, 0); err == nil {
		t.Fatal("expected error for invalid png data")
	}
}

func TestSampleDownscales(t *testing.T) {
	// 4x4 tile with a bright right half.
	data := encodeGray(t, [][]uint8{
		{0, 0, 200, 200},
		{0, 0, 200, 200},
		{0, 0, 200, 200},
		{0, 0, 200, 200},
	})
	f, err := DecodeFrame(data, "", 8, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	grid := f.Sample(2, 1)
	if len(grid) != 1 || len(grid[0]) != 2 {
		t.Fatalf("unexpected sample shape: %dx%d", len(grid), len(grid[0]))
	}
	if grid[0][0] != 0 {
		t.Fatalf("left half should be dry, got %f", grid[0][0])
	}
	if grid[0][1] != 1 {
		t.Fatalf("right half should be saturated, got %f", grid[0][1])
	}
}

func TestCacheRetention(t *testing.T) {
	c := NewCache(2, time.Hour)

	c.Put(TileKey(8, 0, 0), &Frame{X: 0})
	c.Put(TileKey(8, 1, 0), &Frame{X: 1})
	c.Put(TileKey(8, 2, 0), &Frame{X: 2})

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", c.Len())
	}
	if _, ok := c.Get(TileKey(8, 0, 0)); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if f, ok := c.Get(TileKey(8, 2, 0)); !ok || f.X != 2 {
		t.Fatal("newest entry should be retained")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(0, time.Nanosecond)
	c.Put("k", &Frame{})
	time.Sleep(time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry should not be returned")
	}
}
