package render

import "errors"

// Pipeline errors. A render either fully succeeds or yields nothing; all of
// these are recoverable at the caller.
var (
	// ErrEncoding means the text cannot be encoded as a QR payload at the
	// configured error-correction level.
	ErrEncoding = errors.New("text is not encodable as a QR payload")

	// ErrCanvasAllocation means a rendering surface with the derived
	// dimensions cannot be allocated.
	ErrCanvasAllocation = errors.New("cannot allocate rendering canvas")

	// ErrPayloadTooLarge means the encoded export still exceeds the
	// spreadsheet cell ceiling after quality and resolution reduction.
	ErrPayloadTooLarge = errors.New("encoded image exceeds spreadsheet cell limit")

	// ErrInvalidStyle means a style parameter is outside its allowed range.
	ErrInvalidStyle = errors.New("invalid style parameter")
)
