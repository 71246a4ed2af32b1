package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/thumbor-url/internal/handler"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		Name                string
		Handler             handler.Handler
		Accept              string
		ExpectedStatus      int
		ExpectedBody        string
		ExpectedContentType string
		ExpectedCache       string
	}{
		{
			Name: "writes json responses",
			Handler: func(w http.ResponseWriter, r *http.Request) *handler.Error {
				return handler.JSON(w, map[string]string{"url": "unsafe/http://a.com/b.jpg"})
			},
			ExpectedStatus:      http.StatusOK,
			ExpectedBody:        "{\"url\":\"unsafe/http://a.com/b.jpg\"}\n",
			ExpectedContentType: "application/json",
		},
		{
			Name: "writes text errors",
			Handler: func(w http.ResponseWriter, r *http.Request) *handler.Error {
				return handler.BadRequest("Invalid size")
			},
			ExpectedStatus:      http.StatusBadRequest,
			ExpectedBody:        "Invalid size\n",
			ExpectedContentType: "text/plain; charset=utf-8",
			ExpectedCache:       "no-cache, no-store, must-revalidate",
		},
		{
			Name: "writes json errors when accepted",
			Handler: func(w http.ResponseWriter, r *http.Request) *handler.Error {
				return handler.InternalServerError()
			},
			Accept:              "application/json",
			ExpectedStatus:      http.StatusInternalServerError,
			ExpectedBody:        "{\"error\":\"Something went wrong\"}\n",
			ExpectedContentType: "application/json",
			ExpectedCache:       "no-cache, no-store, must-revalidate",
		},
	}

	for _, test := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		if test.Accept != "" {
			req.Header.Set("Accept", test.Accept)
		}

		test.Handler.ServeHTTP(w, req)

		if w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
			continue
		}

		if body := w.Body.String(); body != test.ExpectedBody {
			t.Errorf("%s: wrong response %#v", test.Name, body)
		}

		if contentType := w.Header().Get("Content-Type"); contentType != test.ExpectedContentType {
			t.Errorf("%s: wrong content type %#v", test.Name, contentType)
		}

		if cacheControl := w.Header().Get("Cache-Control"); cacheControl != test.ExpectedCache {
			t.Errorf("%s: wrong cache header %#v", test.Name, cacheControl)
		}
	}
}
