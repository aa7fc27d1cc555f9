package editor

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/imageprocessing"
	"github.com/rmitchellscott/ditherbox/internal/logging"
	"github.com/rmitchellscott/ditherbox/internal/sizing"
)

// Session is one image being edited: a source, the parameters applied to
// it and the output settings. All methods are safe for concurrent use.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu         sync.Mutex
	source     image.Image
	sourceName string
	params     dither.Parameters
	settings   OutputSettings
	lastAccess time.Time
	maxPixels  int

	// rendered caches the pipeline output for the current state.
	rendered *dither.PixelBuffer
}

// State is a JSON snapshot of a session.
type State struct {
	ID         uuid.UUID         `json:"id"`
	SourceName string            `json:"source_name"`
	Source     sizing.Size       `json:"source"`
	Working    sizing.Size       `json:"working"`
	Output     sizing.Size       `json:"output"`
	OutputSize string            `json:"output_size"`
	Parameters dither.Parameters `json:"parameters"`
	MatrixSize string            `json:"matrix_size"`
	Settings   OutputSettings    `json:"settings"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewSession starts editing source with default parameters. sourceName is
// the uploaded file name and seeds the proposed export filename.
func NewSession(source image.Image, sourceName string) (*Session, error) {
	if source == nil || source.Bounds().Empty() {
		return nil, ErrNoSource
	}

	now := time.Now()
	settings := DefaultOutputSettings()
	settings.Filename = DefaultOutputFilename(sourceName)

	return &Session{
		ID:         uuid.New(),
		CreatedAt:  now,
		source:     source,
		sourceName: sourceName,
		params:     dither.DefaultParameters(),
		settings:   settings,
		lastAccess: now,
		maxPixels:  DefaultMaxOutputPixels,
	}, nil
}

// SetMaxOutputPixels bounds the area of previews and exports. A
// non-positive n restores DefaultMaxOutputPixels.
func (s *Session) SetMaxOutputPixels(n int) {
	if n <= 0 {
		n = DefaultMaxOutputPixels
	}
	s.mu.Lock()
	s.maxPixels = n
	s.mu.Unlock()
}

func (s *Session) checkOutputLocked(size sizing.Size) error {
	if err := size.Validate(); err != nil {
		return err
	}
	if size.Width > s.maxPixels/size.Height {
		return fmt.Errorf("%w: %s exceeds %d pixels", imageprocessing.ErrImageTooLarge, size, s.maxPixels)
	}
	return nil
}

// Parameters returns the current pixel-transform parameters.
func (s *Session) Parameters() dither.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Settings returns the current output settings.
func (s *Session) Settings() OutputSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SourceSize returns the dimensions of the source image.
func (s *Session) SourceSize() sizing.Size {
	b := s.source.Bounds()
	return sizing.Size{Width: b.Dx(), Height: b.Dy()}
}

// State returns a snapshot suitable for the API.
func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.resolveLocked(sizing.Size{}, s.settings.SizeMode, s.settings.Scale)
	if err != nil {
		return State{}, err
	}
	return State{
		ID:         s.ID,
		SourceName: s.sourceName,
		Source:     s.SourceSize(),
		Working:    res.Working,
		Output:     res.Export,
		OutputSize: res.Export.String(),
		Parameters: s.params,
		MatrixSize: s.params.MatrixSize(),
		Settings:   s.settings,
		CreatedAt:  s.CreatedAt,
	}, nil
}

// OutputSizeString is the "WxH" export size readout for the current
// settings.
func (s *Session) OutputSizeString() (string, error) {
	st, err := s.State()
	if err != nil {
		return "", err
	}
	return st.OutputSize, nil
}

// Update applies a partial change. A rejected update leaves the session
// untouched.
func (s *Session) Update(u ParameterUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, settings, err := u.apply(s.params, s.settings)
	if err != nil {
		return err
	}
	s.setLocked(params, settings)
	return nil
}

// ApplyParameters replaces the pixel-transform parameters, as when a preset
// is selected. Output settings are kept.
func (s *Session) ApplyParameters(p dither.Parameters) error {
	if p.Algorithm == "" {
		p.Algorithm = dither.AlgorithmOrdered
	}
	if err := ValidateParameters(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(p, s.settings)
	return nil
}

// Reset restores default parameters and output settings.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := DefaultOutputSettings()
	settings.Filename = s.settings.Filename
	s.setLocked(dither.DefaultParameters(), settings)
}

func (s *Session) setLocked(p dither.Parameters, settings OutputSettings) {
	if p != s.params || settings.Pixelate != s.settings.Pixelate {
		s.rendered = nil
	}
	s.params = p
	s.settings = settings
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastAccess = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func (s *Session) resolveLocked(container sizing.Size, mode sizing.Mode, scale int) (sizing.Result, error) {
	return sizing.Resolve(sizing.Request{
		Container: container,
		Source:    s.SourceSize(),
		Pixelate:  s.settings.Pixelate,
		Mode:      mode,
		Scale:     scale,
	})
}

// Render returns the pipeline output at working resolution, reusing the
// previous result while parameters and pixelation are unchanged.
func (s *Session) Render() (*dither.PixelBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked()
}

func (s *Session) renderLocked() (*dither.PixelBuffer, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	if s.rendered != nil {
		return s.rendered, nil
	}

	working, err := sizing.WorkingSize(s.SourceSize(), s.settings.Pixelate)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	buf, err := imageprocessing.Render(s.source, working, s.params)
	if err != nil {
		return nil, fmt.Errorf("failed to render session %s: %w", s.ID, err)
	}
	logging.DebugWithComponent(logging.ComponentPipeline, "rendered session",
		"session_id", s.ID, "working", working.String(), "algorithm", s.params.Algorithm,
		"duration", time.Since(start))

	s.rendered = buf
	return buf, nil
}

// Preview renders the session fitted to a container of the given size at
// a power-of-two scale of the source.
func (s *Session) Preview(container sizing.Size) (*image.NRGBA, sizing.Size, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preview, err := sizing.PreviewSize(container, s.SourceSize())
	if err != nil {
		return nil, sizing.Size{}, err
	}
	if err := s.checkOutputLocked(preview); err != nil {
		return nil, sizing.Size{}, err
	}
	buf, err := s.renderLocked()
	if err != nil {
		return nil, sizing.Size{}, err
	}
	img, err := imageprocessing.Upscale(buf, preview)
	if err != nil {
		return nil, sizing.Size{}, err
	}
	return img, preview, nil
}
