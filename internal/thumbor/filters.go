package thumbor

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter names understood by the proxy
const (
	FilterBlur         = "blur"
	FilterBrightness   = "brightness"
	FilterColorize     = "colorize"
	FilterContrast     = "contrast"
	FilterConvolution  = "convolution"
	FilterCurve        = "curve"
	FilterEqualize     = "equalize"
	FilterExtractFocal = "extract_focal"
	FilterFill         = "fill"
	FilterFormat       = "format"
	FilterGifV         = "gifv"
	FilterGrayscale    = "grayscale"
	FilterMaxBytes     = "max_bytes"
	FilterNoise        = "noise"
	FilterNoUpscale    = "no_upscale"
	FilterQuality      = "quality"
	FilterRGB          = "rgb"
	FilterRotate       = "rotate"
	FilterRoundCorners = "round_corners"
	FilterSaturation   = "saturation"
	FilterSharpen      = "sharpen"
	FilterStripICC     = "strip_icc"
	FilterWatermark    = "watermark"
)

// filterSet holds named filters in insertion order
// Setting a filter that already exists replaces its arguments in place
type filterSet struct {
	names []string
	args  map[string]string
}

func (f *filterSet) set(name, args string) {
	if f.args == nil {
		f.args = make(map[string]string)
	}

	if _, exists := f.args[name]; !exists {
		f.names = append(f.names, name)
	}

	f.args[name] = args
}

func (f *filterSet) remove(name string) {
	if _, exists := f.args[name]; !exists {
		return
	}

	delete(f.args, name)

	for i, n := range f.names {
		if n == name {
			f.names = append(f.names[:i:i], f.names[i+1:]...)
			break
		}
	}
}

func (f *filterSet) toggle(name string, enabled bool) {
	if enabled {
		f.set(name, "")
	} else {
		f.remove(name)
	}
}

func (f *filterSet) len() int {
	return len(f.names)
}

// calls returns the filters formatted as name(args)
func (f *filterSet) calls() []string {
	calls := make([]string, 0, len(f.names))
	for _, name := range f.names {
		calls = append(calls, filterCall(name, f.args[name]))
	}

	return calls
}

func filterCall(name, args string) string {
	return name + "(" + args + ")"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinInts(values []int, sep string) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}

	return strings.Join(s, sep)
}

func formatCurve(points []Point) string {
	s := make([]string, len(points))
	for i, p := range points {
		s[i] = p.String()
	}

	return "[" + strings.Join(s, ",") + "]"
}

// Filter sets an arbitrary named filter, joining the arguments with commas
// Watermarks are added rather than replaced, like with WatermarkFilter
func (i *Image) Filter(name string, args ...string) *Image {
	if name == FilterWatermark {
		return i.WatermarkFilter(strings.Join(args, ","))
	}

	i.filters.set(name, strings.Join(args, ","))
	return i
}

// RemoveFilter removes a named filter, it's a no-op if the filter isn't set
func (i *Image) RemoveFilter(name string) *Image {
	i.filters.remove(name)
	return i
}

// Quality sets the output quality
// Like the other single value filters, it's disabled with RemoveFilter(FilterQuality)
func (i *Image) Quality(quality int) *Image {
	return i.Filter(FilterQuality, strconv.Itoa(quality))
}

// Fill sets the colour used to fill the background when fitting in
// An empty colour removes the filter
func (i *Image) Fill(colour string) *Image {
	if colour == "" {
		return i.RemoveFilter(FilterFill)
	}

	return i.Filter(FilterFill, colour)
}

// Rotate rotates the image by the given angle, RemoveFilter(FilterRotate) disables it
func (i *Image) Rotate(angle int) *Image {
	return i.Filter(FilterRotate, strconv.Itoa(angle))
}

// Brightness changes the brightness by the given percentage
func (i *Image) Brightness(amount int) *Image {
	return i.Filter(FilterBrightness, strconv.Itoa(amount))
}

// Contrast changes the contrast by the given percentage, RemoveFilter(FilterContrast) disables it
func (i *Image) Contrast(amount int) *Image {
	return i.Filter(FilterContrast, strconv.Itoa(amount))
}

// Noise adds noise by the given percentage
func (i *Image) Noise(amount int) *Image {
	return i.Filter(FilterNoise, strconv.Itoa(amount))
}

// MaxBytes lowers the quality until the image fits in the given number of bytes
func (i *Image) MaxBytes(bytes int) *Image {
	return i.Filter(FilterMaxBytes, strconv.Itoa(bytes))
}

// Saturation changes the saturation by the given factor
func (i *Image) Saturation(factor float64) *Image {
	return i.Filter(FilterSaturation, formatFloat(factor))
}

// Format sets the output format, FormatNone removes it
func (i *Image) Format(format ImageFormat) *Image {
	if format == FormatNone {
		return i.RemoveFilter(FilterFormat)
	}

	return i.Filter(FilterFormat, format.String())
}

// GifV converts animated gifs to video
func (i *Image) GifV(option GifVOption) *Image {
	return i.Filter(FilterGifV, option.String())
}

// Rgb changes the amount of each colour channel
func (i *Image) Rgb(red, green, blue int) *Image {
	return i.Filter(FilterRGB, joinInts([]int{red, green, blue}, ","))
}

// Colorize colorizes the image with the given fill colour, using the given percentage per channel
func (i *Image) Colorize(red, green, blue int, fill string) *Image {
	return i.Filter(FilterColorize, joinInts([]int{red, green, blue}, ","), fill)
}

// RoundCorners rounds the corners of the image, radiusB makes the corners elliptical
func (i *Image) RoundCorners(radiusA int, radiusB Int, red, green, blue int) *Image {
	radius := strconv.Itoa(radiusA)
	if radiusB.Valid {
		radius = fmt.Sprintf("%d|%d", radiusA, radiusB.Value)
	}

	return i.Filter(FilterRoundCorners, radius, joinInts([]int{red, green, blue}, ","))
}

// Sharpen sharpens the image
func (i *Image) Sharpen(amount, radius float64, luminanceOnly bool) *Image {
	return i.Filter(FilterSharpen, formatFloat(amount), formatFloat(radius), strconv.FormatBool(luminanceOnly))
}

// Convolution applies a convolution matrix, given as a flat list of values with the given number of columns
func (i *Image) Convolution(matrix []int, columns int, normalize bool) *Image {
	return i.Filter(FilterConvolution, joinInts(matrix, ";"), strconv.Itoa(columns), strconv.FormatBool(normalize))
}

// Blur applies gaussian blur with the given radius, and an optional sigma
func (i *Image) Blur(radius int, sigma Int) *Image {
	if sigma.Valid {
		return i.Filter(FilterBlur, strconv.Itoa(radius), strconv.Itoa(sigma.Value))
	}

	return i.Filter(FilterBlur, strconv.Itoa(radius))
}

// Curve applies a curve to all channels and to each individual channel
func (i *Image) Curve(all, red, green, blue []Point) *Image {
	return i.Filter(FilterCurve, formatCurve(all), formatCurve(red), formatCurve(green), formatCurve(blue))
}

// ExtractFocal extracts focal points from a previously cropped source url
func (i *Image) ExtractFocal() *Image {
	i.filters.set(FilterExtractFocal, "")
	return i
}

// Grayscale turns the image into grayscale
func (i *Image) Grayscale(enabled bool) *Image {
	i.filters.toggle(FilterGrayscale, enabled)
	return i
}

// Equalize equalizes the colour distribution
func (i *Image) Equalize(enabled bool) *Image {
	i.filters.toggle(FilterEqualize, enabled)
	return i
}

// NoUpscale prevents the image from being upscaled beyond its original size
func (i *Image) NoUpscale(enabled bool) *Image {
	i.filters.toggle(FilterNoUpscale, enabled)
	return i
}

// StripICC removes the ICC profile
func (i *Image) StripICC(enabled bool) *Image {
	i.filters.toggle(FilterStripICC, enabled)
	return i
}

// Watermark adds a watermark image at the given position with the given transparency
// Positions may be pixels, percentages ("20p"), "center" or "repeat"
// Watermarks are never replaced, every call adds another one
func (i *Image) Watermark(imageURL, x, y string, transparency int) *Image {
	return i.WatermarkFilter(strings.Join([]string{imageURL, x, y, strconv.Itoa(transparency)}, ","))
}

// WatermarkFilter adds a watermark using preformatted arguments
func (i *Image) WatermarkFilter(args string) *Image {
	i.watermarks = append(i.watermarks, filterCall(FilterWatermark, args))
	return i
}
