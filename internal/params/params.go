package params

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DMarby/thumbor-url/internal/thumbor"
)

// Errors
var (
	ErrInvalidSize   = fmt.Errorf("Invalid size")
	ErrInvalidCrop   = fmt.Errorf("Invalid crop, expected four comma separated integers")
	ErrInvalidFit    = fmt.Errorf("Invalid fit mode")
	ErrInvalidAlign  = fmt.Errorf("Invalid alignment")
	ErrInvalidTrim   = fmt.Errorf("Invalid trim mode")
	ErrInvalidFilter = fmt.Errorf("Invalid filter")
)

// Request contains all the parameters for building a thumbor url
type Request struct {
	Image      string   `json:"image"`
	Width      *int     `json:"width,omitempty"`
	Height     *int     `json:"height,omitempty"`
	HFlip      bool     `json:"h_flip,omitempty"`
	VFlip      bool     `json:"v_flip,omitempty"`
	Crop       []int    `json:"crop,omitempty"`
	Fit        string   `json:"fit,omitempty"`
	HAlign     string   `json:"h_align,omitempty"`
	VAlign     string   `json:"v_align,omitempty"`
	Smart      bool     `json:"smart,omitempty"`
	Trim       string   `json:"trim,omitempty"`
	Filters    []string `json:"filters,omitempty"`
	Watermarks []string `json:"watermarks,omitempty"`
	Unsafe     bool     `json:"unsafe,omitempty"`
}

// GetParams parses the query parameters of a request
func GetParams(r *http.Request) (*Request, error) {
	return FromQuery(r.URL.Query())
}

// FromQuery parses a request from query parameters
// Flags such as ?smart are enabled by being present
func FromQuery(query url.Values) (*Request, error) {
	req := &Request{
		Image:      query.Get("image"),
		Fit:        query.Get("fit"),
		HAlign:     query.Get("halign"),
		VAlign:     query.Get("valign"),
		Trim:       query.Get("trim"),
		Filters:    query["filter"],
		Watermarks: query["watermark"],
		HFlip:      hasParam(query, "hflip"),
		VFlip:      hasParam(query, "vflip"),
		Smart:      hasParam(query, "smart"),
		Unsafe:     hasParam(query, "unsafe"),
	}

	var err error
	if req.Width, err = intParam(query, "width"); err != nil {
		return nil, ErrInvalidSize
	}

	if req.Height, err = intParam(query, "height"); err != nil {
		return nil, ErrInvalidSize
	}

	if req.Crop, err = ParseCrop(query.Get("crop")); err != nil {
		return nil, err
	}

	return req, nil
}

// ParseCrop parses a comma separated crop box such as 10,20,30,40
// An empty string is no crop
func ParseCrop(crop string) ([]int, error) {
	if crop == "" {
		return nil, nil
	}

	var box []int
	for _, c := range strings.Split(crop, ",") {
		val, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return nil, ErrInvalidCrop
		}

		box = append(box, val)
	}

	return box, nil
}

// hasParam returns whether a query parameter is present
func hasParam(query url.Values, name string) bool {
	_, ok := query[name]
	return ok
}

// intParam gets an optional integer query parameter
func intParam(query url.Values, name string) (*int, error) {
	if !hasParam(query, name) {
		return nil, nil
	}

	val, err := strconv.Atoi(query.Get(name))
	if err != nil {
		return nil, err
	}

	return &val, nil
}

// BuildImage builds a thumbor image with the transforms of the request applied
func (r *Request) BuildImage(t *thumbor.Thumbor) (*thumbor.Image, error) {
	image, err := t.BuildImage(r.Image)
	if err != nil {
		return nil, err
	}

	if r.Width != nil || r.Height != nil {
		image.Resize(valueOrZero(r.Width), valueOrZero(r.Height))
	}

	image.HorizontalFlip(r.HFlip).VerticalFlip(r.VFlip).Smart(r.Smart)

	if r.Crop != nil {
		if len(r.Crop) != 4 {
			return nil, ErrInvalidCrop
		}

		image.Crop(r.Crop[0], r.Crop[1], r.Crop[2], r.Crop[3])
	}

	fit, err := parseFit(r.Fit)
	if err != nil {
		return nil, err
	}

	hAlign, err := parseHAlign(r.HAlign)
	if err != nil {
		return nil, err
	}

	vAlign, err := parseVAlign(r.VAlign)
	if err != nil {
		return nil, err
	}

	trim, err := parseTrim(r.Trim)
	if err != nil {
		return nil, err
	}

	image.Fit(fit).HorizontalAlign(hAlign).VerticalAlign(vAlign).Trim(trim)

	for _, f := range r.Filters {
		name, args, err := parseFilter(f)
		if err != nil {
			return nil, err
		}

		image.Filter(name, args)
	}

	for _, w := range r.Watermarks {
		image.WatermarkFilter(w)
	}

	return image, nil
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}

	return *v
}

func parseFit(fit string) (thumbor.FitMode, error) {
	switch fit {
	case "":
		return thumbor.FitNone, nil
	case "fit-in":
		return thumbor.FitIn, nil
	case "full-fit-in":
		return thumbor.FullFitIn, nil
	default:
		return thumbor.FitNone, ErrInvalidFit
	}
}

func parseHAlign(align string) (thumbor.HAlign, error) {
	switch align {
	case "", "center":
		return thumbor.Center, nil
	case "left":
		return thumbor.Left, nil
	case "right":
		return thumbor.Right, nil
	default:
		return thumbor.Center, ErrInvalidAlign
	}
}

func parseVAlign(align string) (thumbor.VAlign, error) {
	switch align {
	case "", "middle":
		return thumbor.Middle, nil
	case "top":
		return thumbor.Top, nil
	case "bottom":
		return thumbor.Bottom, nil
	default:
		return thumbor.Middle, ErrInvalidAlign
	}
}

func parseTrim(trim string) (thumbor.TrimMode, error) {
	switch trim {
	case "":
		return thumbor.TrimNone, nil
	case "top-left":
		return thumbor.TrimTopLeft, nil
	case "bottom-right":
		return thumbor.TrimBottomRight, nil
	default:
		return thumbor.TrimNone, ErrInvalidTrim
	}
}

// parseFilter splits a filter call such as quality(80) into its name and arguments
func parseFilter(filter string) (name string, args string, err error) {
	open := strings.IndexByte(filter, '(')
	if open <= 0 || !strings.HasSuffix(filter, ")") {
		return "", "", ErrInvalidFilter
	}

	name = filter[:open]
	for _, c := range name {
		if (c < 'a' || c > 'z') && c != '_' {
			return "", "", ErrInvalidFilter
		}
	}

	return name, filter[open+1 : len(filter)-1], nil
}
