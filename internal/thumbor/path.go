package thumbor

import (
	"fmt"
	"strconv"
	"strings"
)

// Path returns the canonical path of the image, without a leading or trailing slash
// The segments are always in the order the proxy expects:
// trim/crop/fit/size/halign/valign/smart/filters:.../image
func (i *Image) Path() (string, error) {
	if i.locator == "" {
		return "", ErrInvalidState
	}

	var parts []string

	if i.trim != TrimNone {
		parts = append(parts, i.trim.String())
	}

	if i.crop != nil {
		parts = append(parts, fmt.Sprintf("%dx%d:%dx%d", i.crop.topLeft, i.crop.topRight, i.crop.bottomLeft, i.crop.bottomRight))
	}

	if i.fit != FitNone {
		parts = append(parts, i.fit.String())
	}

	if i.resized || i.hflip || i.vflip {
		parts = append(parts, dimension(i.width, i.hflip)+"x"+dimension(i.height, i.vflip))
	}

	if i.halign != Center {
		parts = append(parts, i.halign.String())
	}

	if i.valign != Middle {
		parts = append(parts, i.valign.String())
	}

	if i.smart {
		parts = append(parts, "smart")
	}

	if i.filters.len() > 0 || len(i.watermarks) > 0 {
		filters := append(i.filters.calls(), i.watermarks...)
		parts = append(parts, "filters:"+strings.Join(filters, ":"))
	}

	parts = append(parts, i.locator)

	return strings.Join(parts, "/"), nil
}

// dimension formats a width or height, negating it when flipped
// A flipped 0 can't be negated, so it's written as -0
func dimension(value int, flip bool) string {
	if !flip {
		return strconv.Itoa(value)
	}

	if value == 0 {
		return "-0"
	}

	return strconv.Itoa(-value)
}
