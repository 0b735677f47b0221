package render

import (
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// quietZoneModules is the blank margin around the QR matrix, in modules.
const quietZoneModules = 2

// qrRaster produces a square QR image for text at exactly side x side pixels,
// foreground fg, background white or fully transparent. It renders at a block
// width that meets or exceeds the target and snaps to the exact side with a
// nearest-neighbor resize, keeping module edges sharp.
func qrRaster(text string, side int, fg color.RGBA, transparent bool) (image.Image, error) {
	qrc, err := qrcode.NewWith(text, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	dim := qrc.Dimension()
	if dim <= 0 {
		return nil, fmt.Errorf("%w: invalid matrix dimension %d", ErrEncoding, dim)
	}

	totalModules := dim + 2*quietZoneModules
	blockWidth := (side + totalModules - 1) / totalModules
	if blockWidth < 1 {
		blockWidth = 1
	}
	if blockWidth > 255 {
		blockWidth = 255
	}

	opts := []standard.ImageOption{
		standard.WithQRWidth(uint8(blockWidth)),
		standard.WithBorderWidth(quietZoneModules * blockWidth),
		standard.WithFgColor(fg),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	}
	if transparent {
		opts = append(opts, standard.WithBgTransparent())
	} else {
		opts = append(opts, standard.WithBgColor(color.RGBA{255, 255, 255, 255}))
	}

	tmpFile := filepath.Join(os.TempDir(), uniqueFilename("qr", ".png"))
	defer os.Remove(tmpFile)

	w, err := standard.New(tmpFile, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create writer: %v", ErrCanvasAllocation, err)
	}
	if err := qrc.Save(w); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	_ = w.Close()

	f, err := os.Open(tmpFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read produced raster: %v", ErrEncoding, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode produced raster: %v", ErrEncoding, err)
	}

	if img.Bounds().Dx() != side || img.Bounds().Dy() != side {
		img = imaging.Resize(img, side, side, imaging.NearestNeighbor)
	}
	return img, nil
}

// uniqueFilename builds a collision-resistant temp filename.
func uniqueFilename(prefix, extension string) string {
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("%s_%d_%x%s", prefix, time.Now().UnixNano(), randomBytes, extension)
}
