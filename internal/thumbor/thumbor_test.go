package thumbor_test

import (
	"strings"
	"testing"

	"github.com/DMarby/thumbor-url/internal/hmac"
	"github.com/DMarby/thumbor-url/internal/thumbor"
)

func TestNew(t *testing.T) {
	for _, url := range []string{"", "notaurl", "httpnoturl", "/relative/path"} {
		if _, err := thumbor.New(url, ""); err != thumbor.ErrInvalidServerURL {
			t.Errorf("%#v: wrong error %v", url, err)
		}
	}
}

func TestBuildImageWithInvalidURL(t *testing.T) {
	th, err := thumbor.New(serverURL, "")
	if err != nil {
		t.Fatal(err)
	}

	for _, url := range []string{"", "notaurl", "httpnoturl", "my.server.com/image.jpg"} {
		if _, err := th.BuildImage(url); err != thumbor.ErrInvalidLocator {
			t.Errorf("%#v: wrong error %v", url, err)
		}

		if _, err := thumbor.NewImage(url); err != thumbor.ErrInvalidLocator {
			t.Errorf("%#v: wrong error %v", url, err)
		}
	}
}

func TestSignedURL(t *testing.T) {
	th, err := thumbor.New(serverURL, "sample_key")
	if err != nil {
		t.Fatal(err)
	}

	if !th.Signed() {
		t.Fatal("thumbor is not signed")
	}

	image, err := th.BuildImage("https://localhost/image.jpg")
	if err != nil {
		t.Fatal(err)
	}

	url, err := image.URL()
	if err != nil {
		t.Fatal(err)
	}

	if url != "http://localhost/_fak0PqFdoaKkMQpbxPE0ql8dtY=/https://localhost/image.jpg" {
		t.Errorf("wrong url %s", url)
	}

	unsafeURL, err := image.UnsafeURL()
	if err != nil {
		t.Fatal(err)
	}

	if unsafeURL != "http://localhost/unsafe/https://localhost/image.jpg" {
		t.Errorf("wrong unsafe url %s", unsafeURL)
	}

	if image.String() != url {
		t.Errorf("wrong string %s", image.String())
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		Name        string
		ServerURL   string
		Key         string
		Path        string
		ExpectedURL string
	}{
		{"unsigned", "http://localhost/", "", "/trim/100x200/filters:grayscale()/http://myserver/myimage.jpg", "http://localhost/unsafe/trim/100x200/filters:grayscale()/http://myserver/myimage.jpg"},
		{"signed", "http://localhost/", "secret_key", "/trim/100x200/filters:grayscale()/http://myserver/myimage.jpg", "http://localhost/3O6tySGiWNKehjeS1ARFGEnNMtU=/trim/100x200/filters:grayscale()/http://myserver/myimage.jpg"},
		{"signed without leading slash", "http://localhost", "secret_key", "trim/100x200/filters:grayscale()/http://myserver/myimage.jpg", "http://localhost/BBkKn1mqVJVyKDd3PFh58ATT-dQ=/trim/100x200/filters:grayscale()/http://myserver/myimage.jpg"},
		{"server without trailing slash", "http://localhost", "", "20x30/http://localhost/image.jpg", "http://localhost/unsafe/20x30/http://localhost/image.jpg"},
	}

	for _, test := range tests {
		th, err := thumbor.New(test.ServerURL, test.Key)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		url, err := th.BuildURL(test.Path)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if url != test.ExpectedURL {
			t.Errorf("%s: wrong url %s, expected %s", test.Name, url, test.ExpectedURL)
		}
	}
}

func TestFinalPath(t *testing.T) {
	path := "300x200/my.server.com/some/path/to/image.jpg"

	signed, err := thumbor.FinalPath(path, hmac.New("my-security-key"))
	if err != nil {
		t.Fatal(err)
	}

	if signed != "8ammJH8D-7tXy6kU3lTvoXlhu4o=/300x200/my.server.com/some/path/to/image.jpg" {
		t.Errorf("wrong signed path %s", signed)
	}

	if strings.HasPrefix(signed, "/") {
		t.Errorf("signed path has a leading slash %s", signed)
	}

	th, err := thumbor.New("http://localhost:8888", "my-security-key")
	if err != nil {
		t.Fatal(err)
	}

	url, err := th.BuildURL(path)
	if err != nil {
		t.Fatal(err)
	}

	if url != "http://localhost:8888/8ammJH8D-7tXy6kU3lTvoXlhu4o=/300x200/my.server.com/some/path/to/image.jpg" {
		t.Errorf("wrong url %s", url)
	}

	for _, h := range []*hmac.HMAC{nil, hmac.New(""), {}} {
		unsafe, err := thumbor.FinalPath(path, h)
		if err != nil {
			t.Fatal(err)
		}

		if unsafe != "unsafe/300x200/my.server.com/some/path/to/image.jpg" {
			t.Errorf("wrong unsafe path %s", unsafe)
		}
	}
}

func TestResizeURL(t *testing.T) {
	image := newImage(t).Resize(20, 30)

	url, err := image.URL()
	if err != nil {
		t.Fatal(err)
	}

	if url != "http://localhost/unsafe/20x30/http://localhost/image.jpg" {
		t.Errorf("wrong url %s", url)
	}
}

func TestDetachedImage(t *testing.T) {
	image, err := thumbor.NewImage(imageURL)
	if err != nil {
		t.Fatal(err)
	}

	path, err := image.Resize(20, 30).Path()
	if err != nil {
		t.Fatal(err)
	}

	if path != "20x30/http://localhost/image.jpg" {
		t.Errorf("wrong path %s", path)
	}

	if _, err := image.URL(); err != thumbor.ErrNoServer {
		t.Errorf("wrong error %v", err)
	}

	if image.String() != "" {
		t.Errorf("wrong string %s", image.String())
	}
}
