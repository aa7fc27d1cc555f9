package imageprocessing

import "errors"

var (
	// ErrUnsupportedExportFormat is returned for export file extensions other
	// than png, jpg, jpeg and gif.
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	// ErrUnknownAlgorithm is returned for algorithm names missing from the
	// registry.
	ErrUnknownAlgorithm = errors.New("unknown dithering algorithm")
	// ErrDecode wraps any failure to read an uploaded image.
	ErrDecode = errors.New("failed to decode image")
	// ErrImageTooLarge is returned when a source exceeds the pixel limit.
	ErrImageTooLarge = errors.New("image too large")
)
