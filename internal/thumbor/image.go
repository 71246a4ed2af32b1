package thumbor

import (
	"net/url"
)

// Image accumulates the transforms to apply to an image
// Every setter returns the same Image, so calls can be chained
// An Image is not safe for concurrent mutation
type Image struct {
	thumbor *Thumbor
	locator string

	resized bool
	width   int
	height  int
	hflip   bool
	vflip   bool

	crop       *cropBox
	fit        FitMode
	halign     HAlign
	valign     VAlign
	smart      bool
	trim       TrimMode
	filters    filterSet
	watermarks []string
}

type cropBox struct {
	topLeft     int
	topRight    int
	bottomLeft  int
	bottomRight int
}

// NewImage creates an Image that isn't attached to a thumbor server
// It can be serialized with Path, but URL will return an error
func NewImage(imageURL string) (*Image, error) {
	if err := validateURL(imageURL); err != nil {
		return nil, ErrInvalidLocator
	}

	return &Image{
		locator: imageURL,
	}, nil
}

// validateURL checks that the given string is an absolute URL with a host
func validateURL(rawURL string) error {
	if rawURL == "" {
		return errEmptyURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	if !u.IsAbs() || u.Host == "" {
		return errNotAbsolute
	}

	return nil
}

// Resize sets the size of the image, 0 keeps the original proportions for that dimension
// Negative values flip the image along that axis
func (i *Image) Resize(width, height int) *Image {
	i.resized = true
	i.width = width
	i.height = height
	return i
}

// HorizontalFlip flips the image horizontally
func (i *Image) HorizontalFlip(flip bool) *Image {
	i.hflip = flip
	return i
}

// VerticalFlip flips the image vertically
func (i *Image) VerticalFlip(flip bool) *Image {
	i.vflip = flip
	return i
}

// Crop crops the image using the given coordinates before any other transform
func (i *Image) Crop(topLeft, topRight, bottomLeft, bottomRight int) *Image {
	i.crop = &cropBox{topLeft, topRight, bottomLeft, bottomRight}
	return i
}

// Fit sets the fit mode
func (i *Image) Fit(mode FitMode) *Image {
	i.fit = mode
	return i
}

// FitIn fits the image into the requested size
// Disabling it removes any fit mode, including full-fit-in
func (i *Image) FitIn(enabled bool) *Image {
	if enabled {
		return i.Fit(FitIn)
	}

	return i.Fit(FitNone)
}

// FullFitIn fits the image so that its smallest side matches the requested size
// Disabling it removes any fit mode, including fit-in
func (i *Image) FullFitIn(enabled bool) *Image {
	if enabled {
		return i.Fit(FullFitIn)
	}

	return i.Fit(FitNone)
}

// HorizontalAlign sets the horizontal alignment used when cropping
func (i *Image) HorizontalAlign(align HAlign) *Image {
	i.halign = align
	return i
}

// VerticalAlign sets the vertical alignment used when cropping
func (i *Image) VerticalAlign(align VAlign) *Image {
	i.valign = align
	return i
}

// Smart enables smart cropping using focal point detection
func (i *Image) Smart(enabled bool) *Image {
	i.smart = enabled
	return i
}

// Trim removes the surrounding space of the image
func (i *Image) Trim(mode TrimMode) *Image {
	i.trim = mode
	return i
}
