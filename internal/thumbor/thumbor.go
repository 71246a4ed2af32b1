package thumbor

import (
	"errors"
	"strings"

	"github.com/DMarby/thumbor-url/internal/hmac"
)

// Errors
var (
	ErrInvalidLocator   = errors.New("invalid image url")
	ErrInvalidServerURL = errors.New("invalid thumbor server url")
	ErrInvalidState     = errors.New("image url must be set before building the path")
	ErrNoServer         = errors.New("image is not attached to a thumbor server")

	errEmptyURL    = errors.New("empty url")
	errNotAbsolute = errors.New("url is not absolute")
)

const unsafePrefix = "unsafe"

// Thumbor builds URLs for a thumbor server
// It holds no mutable state and can be shared between goroutines
type Thumbor struct {
	ServerURL string
	HMAC      *hmac.HMAC
}

// New creates a Thumbor for the given server
// An empty secret key creates unsigned, "unsafe" URLs
func New(serverURL string, secretKey string) (*Thumbor, error) {
	if err := validateURL(serverURL); err != nil {
		return nil, ErrInvalidServerURL
	}

	return &Thumbor{
		ServerURL: serverURL,
		HMAC:      hmac.New(secretKey),
	}, nil
}

// Signed reports whether URLs are signed
func (t *Thumbor) Signed() bool {
	return t.HMAC.Enabled()
}

// BuildImage creates an Image for the given image url, to which transforms can be applied
func (t *Thumbor) BuildImage(imageURL string) (*Image, error) {
	image, err := NewImage(imageURL)
	if err != nil {
		return nil, err
	}

	image.thumbor = t
	return image, nil
}

// BuildURL builds a URL for an already serialized path
// The signature is computed over the path exactly as given
func (t *Thumbor) BuildURL(path string) (string, error) {
	signed, err := FinalPath(path, t.HMAC)
	if err != nil {
		return "", err
	}

	return t.join(signed), nil
}

// join joins the server url with a path, with exactly one slash between them
func (t *Thumbor) join(path string) string {
	return strings.TrimSuffix(t.ServerURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// FinalPath prefixes a canonical path with its signature, such as {signature}/300x200/image
// If the HMAC is nil or has no key, the path is prefixed with unsafe instead
// The result has no leading slash, the server url and final path are joined with one
func FinalPath(path string, h *hmac.HMAC) (string, error) {
	separator := "/"
	if strings.HasPrefix(path, "/") {
		separator = ""
	}

	if !h.Enabled() {
		return unsafePrefix + separator + path, nil
	}

	signature, err := h.Create(path)
	if err != nil {
		return "", err
	}

	return signature + separator + path, nil
}

// URL returns the full URL of the image, signed if the server has a secret key
func (i *Image) URL() (string, error) {
	if i.thumbor == nil {
		return "", ErrNoServer
	}

	return i.url(i.thumbor.HMAC)
}

// UnsafeURL returns the full URL of the image without a signature
func (i *Image) UnsafeURL() (string, error) {
	if i.thumbor == nil {
		return "", ErrNoServer
	}

	return i.url(nil)
}

func (i *Image) url(h *hmac.HMAC) (string, error) {
	path, err := i.Path()
	if err != nil {
		return "", err
	}

	finalPath, err := FinalPath(path, h)
	if err != nil {
		return "", err
	}

	return i.thumbor.join(finalPath), nil
}

// String returns the full URL of the image, or an empty string if it can't be built
func (i *Image) String() string {
	u, err := i.URL()
	if err != nil {
		return ""
	}

	return u
}
