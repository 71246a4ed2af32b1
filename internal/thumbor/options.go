package thumbor

import "fmt"

// TrimMode is the pixel colour used to trim the image borders
type TrimMode int

const (
	// TrimNone disables trimming
	TrimNone TrimMode = iota
	// TrimTopLeft trims using the colour of the top-left pixel
	TrimTopLeft
	// TrimBottomRight trims using the colour of the bottom-right pixel
	TrimBottomRight
)

func (t TrimMode) String() string {
	switch t {
	case TrimTopLeft:
		return "trim"
	case TrimBottomRight:
		return "trim:bottom-right"
	default:
		return ""
	}
}

// FitMode controls whether the image is fit into the requested size
type FitMode int

const (
	// FitNone crops the image to the requested size
	FitNone FitMode = iota
	// FitIn fits the image into the requested box
	FitIn
	// FullFitIn fits the image so that the smallest side matches the box
	FullFitIn
)

func (f FitMode) String() string {
	switch f {
	case FitIn:
		return "fit-in"
	case FullFitIn:
		return "full-fit-in"
	default:
		return ""
	}
}

// HAlign is the horizontal alignment used when cropping
type HAlign int

const (
	// Center is the default horizontal alignment, and is never part of the path
	Center HAlign = iota
	Left
	Right
)

func (a HAlign) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "center"
	}
}

// VAlign is the vertical alignment used when cropping
type VAlign int

const (
	// Middle is the default vertical alignment, and is never part of the path
	Middle VAlign = iota
	Top
	Bottom
)

func (a VAlign) String() string {
	switch a {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "middle"
	}
}

// ImageFormat is the output format of the image
type ImageFormat int

const (
	// FormatNone keeps the format of the source image
	FormatNone ImageFormat = iota
	FormatWebP
	FormatJPEG
	FormatPNG
	FormatGIF
)

func (f ImageFormat) String() string {
	switch f {
	case FormatWebP:
		return "webp"
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatGIF:
		return "gif"
	default:
		return ""
	}
}

// GifVOption is the video format animated gifs are converted to
type GifVOption int

const (
	// GifVNone converts to mp4, the proxy default
	GifVNone GifVOption = iota
	GifVWebm
)

func (g GifVOption) String() string {
	if g == GifVWebm {
		return "webm"
	}

	return ""
}

// Int is an optional integer filter argument
type Int struct {
	Value int
	Valid bool
}

// Some returns a present Int
func Some(v int) Int {
	return Int{Value: v, Valid: true}
}

// None returns an absent Int
func None() Int {
	return Int{}
}

// Point is a coordinate pair of a curve
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
