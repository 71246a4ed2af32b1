package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/DMarby/thumbor-url/internal/api"
	"github.com/DMarby/thumbor-url/internal/health"
	"github.com/DMarby/thumbor-url/internal/logger"
	"github.com/DMarby/thumbor-url/internal/params"
	"github.com/DMarby/thumbor-url/internal/thumbor"
	"github.com/DMarby/thumbor-url/internal/tracing/test"
	"go.uber.org/zap"
)

const serverURL = "http://localhost:8888"

func TestAPI(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	th, err := thumbor.New(serverURL, "a")
	if err != nil {
		t.Fatal(err)
	}

	checker := &health.Checker{Ctx: ctx, Thumbor: th, Log: log}
	checker.Run()

	router := (&api.API{th, checker, log, test.Tracer(log), time.Minute, 2}).Router()

	tests := []struct {
		Name             string
		Method           string
		URL              string
		Body             string
		ExpectedStatus   int
		ExpectedResponse []byte
		ExpectedHeaders  map[string]string
	}{
		{
			Name:           "/url builds a signed url",
			URL:            "/url?image=http://example.org/input.jpg&width=200&height=200&fit=fit-in",
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: marshalJson(params.Result{
				Path: "fit-in/200x200/http://example.org/input.jpg",
				URL:  serverURL + "/0X5nlVGRT9gn6PgbvaZyxQNbgKQ=/fit-in/200x200/http://example.org/input.jpg",
			}),
			ExpectedHeaders: map[string]string{
				"Content-Type":  "application/json",
				"Cache-Control": "public, max-age=3600",
				"ETag":          api.ETag(serverURL + "/0X5nlVGRT9gn6PgbvaZyxQNbgKQ=/fit-in/200x200/http://example.org/input.jpg"),
			},
		},
		{
			Name:           "/url builds a url with flips, alignment and filters",
			URL:            "/url?image=http://example.org/input.jpg&width=300&height=200&hflip&vflip&halign=left&valign=top&filter=quality(80)&filter=grayscale()",
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: marshalJson(params.Result{
				Path: "-300x-200/left/top/filters:quality(80):grayscale()/http://example.org/input.jpg",
				URL:  serverURL + "/exSvEZkYOyycu_Map-M924Qb2mw=/-300x-200/left/top/filters:quality(80):grayscale()/http://example.org/input.jpg",
			}),
		},
		{
			Name:           "/url builds an unsafe url",
			URL:            "/url?image=http://example.org/input.jpg&width=200&height=200&fit=fit-in&unsafe",
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: marshalJson(params.Result{
				Path: "fit-in/200x200/http://example.org/input.jpg",
				URL:  serverURL + "/unsafe/fit-in/200x200/http://example.org/input.jpg",
			}),
		},
		{
			Name:             "/url rejects an invalid image url",
			URL:              "/url?image=notaurl",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: []byte("invalid image url\n"),
			ExpectedHeaders: map[string]string{
				"Cache-Control": "no-cache, no-store, must-revalidate",
			},
		},
		{
			Name:             "/url rejects a missing image url",
			URL:              "/url?width=100",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: []byte("invalid image url\n"),
		},
		{
			Name:             "/url rejects an invalid size",
			URL:              "/url?image=http://example.org/input.jpg&width=abc",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: []byte("Invalid size\n"),
		},
		{
			Name:             "/url rejects an invalid filter",
			URL:              "/url?image=http://example.org/input.jpg&filter=quality",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: []byte("Invalid filter\n"),
		},
		{
			Name:             "/url rejects an invalid fit mode",
			URL:              "/url?image=http://example.org/input.jpg&fit=stretch",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: []byte("Invalid fit mode\n"),
		},
		{
			Name:           "/sign signs a path as given",
			URL:            "/sign?path=/trim/100x200/filters:grayscale()/http://myserver/myimage.jpg",
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: marshalJson(api.SignedURL{
				URL: serverURL + "/6-36Bi-Lr71PWPMdWpJiPmguUiI=/trim/100x200/filters:grayscale()/http://myserver/myimage.jpg",
			}),
		},
		{
			Name:           "/sign signs a path without a leading slash",
			URL:            "/sign?path=trim/100x200/filters:grayscale()/http://myserver/myimage.jpg",
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: marshalJson(api.SignedURL{
				URL: serverURL + "/puUl9LJcRwm5GAoUuXA7Bd5pLiY=/trim/100x200/filters:grayscale()/http://myserver/myimage.jpg",
			}),
		},
		{
			Name:             "/sign rejects a missing path",
			URL:              "/sign",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: []byte("Invalid path\n"),
		},
		{
			Name:           "/urls builds multiple urls in order",
			Method:         "POST",
			URL:            "/urls",
			Body:           `[{"image":"http://example.org/input.jpg","width":200,"height":200,"fit":"fit-in"},{"image":"http://example.org/other.jpg","width":300,"height":200,"smart":true}]`,
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: marshalJson([]params.Result{
				{
					Path: "fit-in/200x200/http://example.org/input.jpg",
					URL:  serverURL + "/0X5nlVGRT9gn6PgbvaZyxQNbgKQ=/fit-in/200x200/http://example.org/input.jpg",
				},
				{
					Path: "300x200/smart/http://example.org/other.jpg",
					URL:  serverURL + "/wtj5fsbxqJtQvq4l00mWJS9XqNs=/300x200/smart/http://example.org/other.jpg",
				},
			}),
		},
		{
			Name:             "/urls rejects a batch with an invalid entry",
			Method:           "POST",
			URL:              "/urls",
			Body:             `[{"image":"http://example.org/input.jpg"},{"image":"httpnoturl"}]`,
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: []byte("request 1: invalid image url\n"),
		},
		{
			Name:             "/urls rejects an invalid body",
			Method:           "POST",
			URL:              "/urls",
			Body:             `{"image":`,
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: []byte("Invalid request body\n"),
		},
		{
			Name:             "/health returns the health status",
			URL:              "/health",
			ExpectedStatus:   http.StatusOK,
			ExpectedResponse: marshalJson(health.Status{Healthy: true, Signer: "healthy"}),
		},
		{
			Name:             "unknown routes return not found",
			URL:              "/id/1/200/200",
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: []byte("page not found\n"),
		},
	}

	for _, test := range tests {
		method := test.Method
		if method == "" {
			method = "GET"
		}

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, test.URL, strings.NewReader(test.Body))
		router.ServeHTTP(w, req)
		if w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
			continue
		}

		if !reflect.DeepEqual(w.Body.Bytes(), test.ExpectedResponse) {
			t.Errorf("%s: wrong response %s", test.Name, w.Body.String())
		}

		for expectedHeader, expectedValue := range test.ExpectedHeaders {
			headerValue := w.Header().Get(expectedHeader)
			if headerValue != expectedValue {
				t.Errorf("%s: wrong header %s %#v, expected %#v", test.Name, expectedHeader, headerValue, expectedValue)
			}
		}

		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s: missing request id", test.Name)
		}
	}
}

func TestNotModified(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	th, err := thumbor.New(serverURL, "a")
	if err != nil {
		t.Fatal(err)
	}

	router := (&api.API{Thumbor: th, Log: log, HandlerTimeout: time.Minute}).Router()

	url := "/url?image=http://example.org/input.jpg&width=200&height=200&fit=fit-in"
	etag := api.ETag(serverURL + "/0X5nlVGRT9gn6PgbvaZyxQNbgKQ=/fit-in/200x200/http://example.org/input.jpg")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("If-None-Match", etag)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified {
		t.Errorf("wrong response code, %#v", w.Code)
	}

	if w.Body.Len() != 0 {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestETag(t *testing.T) {
	a := api.ETag(serverURL + "/unsafe/200x200/http://example.org/a.jpg")
	b := api.ETag(serverURL + "/unsafe/200x200/http://example.org/b.jpg")

	if a == b {
		t.Errorf("expected different etags for different urls, got %s", a)
	}

	if !strings.HasPrefix(a, `"`) || !strings.HasSuffix(a, `"`) {
		t.Errorf("etag is not quoted: %s", a)
	}
}

func marshalJson(v interface{}) []byte {
	fixture, _ := json.Marshal(v)
	return append(fixture[:], []byte("\n")...)
}
