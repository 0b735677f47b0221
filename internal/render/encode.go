package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// CellCharLimit is the hard ceiling a single spreadsheet cell value may hold.
const CellCharLimit = 32767

// Spreadsheet-cell encoding knobs. Quality steps down first, then the source
// shrinks; either way the encoder converges or reports ErrPayloadTooLarge.
const (
	cellJPEGQuality    = 70
	cellJPEGQualityMin = 40
	cellQualityStep    = 10
	cellShrinkFactor   = 0.8
	cellMaxAttempts    = 12
)

// EncodePNG serializes the canvas losslessly for preview and download.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI returns the canvas as a PNG data URI for direct embedding.
func DataURI(img image.Image) (string, error) {
	raw, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// EncodeCell serializes the canvas as a JPEG data URI that fits within
// CellCharLimit. It flattens transparency onto white (JPEG has no alpha),
// then retries with reduced quality and resolution until the payload fits.
// The payload is never truncated: when reduction cannot bring it under the
// ceiling, EncodeCell fails with ErrPayloadTooLarge.
func EncodeCell(img image.Image) (string, error) {
	flat := flattenOnWhite(img)

	quality := cellJPEGQuality
	var uri string
	for attempt := 0; attempt < cellMaxAttempts; attempt++ {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: quality}); err != nil {
			return "", fmt.Errorf("encode jpeg: %w", err)
		}
		uri = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
		if len(uri) <= CellCharLimit {
			return uri, nil
		}

		if quality > cellJPEGQualityMin {
			quality -= cellQualityStep
			continue
		}
		w := int(float64(flat.Bounds().Dx()) * cellShrinkFactor)
		h := int(float64(flat.Bounds().Dy()) * cellShrinkFactor)
		if w < 1 || h < 1 {
			break
		}
		flat = flattenOnWhite(imaging.Resize(flat, w, h, imaging.Lanczos))
	}
	return "", fmt.Errorf("%w: %d chars after reduction", ErrPayloadTooLarge, len(uri))
}

// flattenOnWhite composites the image onto an opaque white background.
func flattenOnWhite(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Over)
	return out
}
