// Package radar turns OpenWeather precipitation tiles into character-cell
// intensity grids for terminal rendering.
package radar

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
)

// Frame is one decoded precipitation tile. Intensities are normalized to
// [0,1] where 0 means no precipitation.
type Frame struct {
	URL  string
	Zoom int
	X    int
	Y    int

	width  int
	height int
	grid   [][]float64
}

// TileForCoords returns the slippy-map tile containing lat/lon at the
// given zoom level.
func TileForCoords(lat, lon float64, zoom int) (x, y int) {
	latRad := lat * math.Pi / 180
	n := math.Exp2(float64(zoom))
	x = int((lon + 180.0) / 360.0 * n)
	y = int((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n)
	return x, y
}

// TileKey is the cache key for a tile position.
func TileKey(zoom, x, y int) string {
	return fmt.Sprintf("%d/%d/%d", zoom, x, y)
}

// DecodeFrame decodes a PNG precipitation tile into a Frame. Pixel
// luminance is scaled so that a gray value of 100 or more reads as full
// intensity, matching how sparse the precipitation layer's alpha-composed
// values are in practice.
func DecodeFrame(data []byte, url string, zoom, x, y int) (*Frame, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode radar tile: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("decode radar tile: empty image")
	}

	grid := make([][]float64, h)
	for row := 0; row < h; row++ {
		grid[row] = make([]float64, w)
		for col := 0; col < w; col++ {
			grid[row][col] = intensityAt(img, bounds.Min.X+col, bounds.Min.Y+row)
		}
	}

	return &Frame{
		URL:    url,
		Zoom:   zoom,
		X:      x,
		Y:      y,
		width:  w,
		height: h,
		grid:   grid,
	}, nil
}

func intensityAt(img image.Image, x, y int) float64 {
	r, g, b, a := img.At(x, y).RGBA()
	if a == 0 {
		return 0
	}
	// Luminance on the 0-255 scale.
	gray := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
	v := gray / 100.0
	if v > 1 {
		v = 1
	}
	return v
}

// Sample resamples the frame to cols x rows cells using nearest-neighbor.
// It is safe to call concurrently; frames are immutable after decode.
func (f *Frame) Sample(cols, rows int) [][]float64 {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	out := make([][]float64, rows)
	for row := 0; row < rows; row++ {
		out[row] = make([]float64, cols)
		srcRow := row * f.height / rows
		for col := 0; col < cols; col++ {
			srcCol := col * f.width / cols
			out[row][col] = f.grid[srcRow][srcCol]
		}
	}
	return out
}
