package asset

import "fmt"

// Type identifies an asset kind on the wire.
type Type string

const (
	TypeVideo   Type = "video"
	TypeAudio   Type = "audio"
	TypeImage   Type = "image"
	TypeTitle   Type = "title"
	TypeShape   Type = "shape"
	TypeLuma    Type = "luma"
	TypeCaption Type = "caption"
)

// Types lists every supported asset kind in wire order.
var Types = []Type{
	TypeVideo,
	TypeAudio,
	TypeImage,
	TypeTitle,
	TypeShape,
	TypeLuma,
	TypeCaption,
}

// Valid reports whether t names a supported asset kind.
func (t Type) Valid() bool {
	switch t {
	case TypeVideo, TypeAudio, TypeImage, TypeTitle, TypeShape, TypeLuma, TypeCaption:
		return true
	default:
		return false
	}
}

// Asset is the wire form of a clip's media. The Type discriminator selects
// which of the optional fields are meaningful; unused fields are omitted
// from serialization.
//
// Field values may be merge-field placeholders ("{{ NAME }}") in the raw
// document form; substitution happens before assets reach the registry.
type Asset struct {
	Type Type `json:"type" yaml:"type"`

	// Source-backed kinds (video, audio, image, luma, caption).
	Src string `json:"src,omitempty" yaml:"src,omitempty"`

	// Trim offsets playback into the source media, in seconds.
	Trim float64 `json:"trim,omitempty" yaml:"trim,omitempty"`

	// Volume applies to audible kinds, 0..1.
	Volume float64 `json:"volume,omitempty" yaml:"volume,omitempty"`

	// Title kind.
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Font  *Font  `json:"font,omitempty" yaml:"font,omitempty"`
	Style string `json:"style,omitempty" yaml:"style,omitempty"`

	// Shape kind.
	Shape  string  `json:"shape,omitempty" yaml:"shape,omitempty"`
	Fill   *Fill   `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty" yaml:"stroke,omitempty"`
}

// Font styles a title asset.
type Font struct {
	Family string  `json:"family,omitempty" yaml:"family,omitempty"`
	Size   float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Fill styles a shape asset's interior.
type Fill struct {
	Color   string  `json:"color,omitempty" yaml:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// Stroke styles a shape asset's outline.
type Stroke struct {
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
	Width float64 `json:"width,omitempty" yaml:"width,omitempty"`
}

// Capability describes what an asset kind supports. Rows are closed over
// the Type constants; Lookup returns an UnsupportedTypeError for anything
// else, so a bad kind fails that clip's construction only.
type Capability struct {
	// HasDuration: the underlying media can report an intrinsic duration,
	// so an "auto" length is resolvable by probing.
	HasDuration bool
	// HasSource: the kind is backed by a src URL.
	HasSource bool
	// Visual: the kind renders to the canvas (audio does not).
	Visual bool
}

var capabilities = map[Type]Capability{
	TypeVideo:   {HasDuration: true, HasSource: true, Visual: true},
	TypeAudio:   {HasDuration: true, HasSource: true, Visual: false},
	TypeImage:   {HasDuration: false, HasSource: true, Visual: true},
	TypeTitle:   {HasDuration: false, HasSource: false, Visual: true},
	TypeShape:   {HasDuration: false, HasSource: false, Visual: true},
	TypeLuma:    {HasDuration: true, HasSource: true, Visual: true},
	TypeCaption: {HasDuration: false, HasSource: true, Visual: true},
}

// Lookup returns the capability row for a kind.
func Lookup(t Type) (Capability, error) {
	c, ok := capabilities[t]
	if !ok {
		return Capability{}, &UnsupportedTypeError{Type: string(t)}
	}
	return c, nil
}

// Clone returns a deep copy of the asset.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	out := *a
	if a.Font != nil {
		f := *a.Font
		out.Font = &f
	}
	if a.Fill != nil {
		f := *a.Fill
		out.Fill = &f
	}
	if a.Stroke != nil {
		s := *a.Stroke
		out.Stroke = &s
	}
	return &out
}

// Describe returns a short human-readable summary for logs and errors.
func (a *Asset) Describe() string {
	if a == nil {
		return "<nil asset>"
	}
	if a.Src != "" {
		return fmt.Sprintf("%s(%s)", a.Type, a.Src)
	}
	return string(a.Type)
}
