package api

import (
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strconv"

	"github.com/DMarby/thumbor-url/internal/handler"
	"github.com/DMarby/thumbor-url/internal/params"
	"github.com/DMarby/thumbor-url/internal/thumbor"
	"github.com/twmb/murmur3"
)

const maxBatchBodySize = 1 << 20

var (
	urlsBuilt  = expvar.NewInt("counter_urls_built")
	urlsSigned = expvar.NewInt("counter_urls_signed")
)

// SignedURL is the response of the sign endpoint
type SignedURL struct {
	URL string `json:"url"`
}

func (a *API) urlHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	// Get the query parameters
	p, err := params.GetParams(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	ctx, span := a.tracer().Start(r.Context(), "api.build")
	defer span.End()

	result, err := params.Build(a.Thumbor, p)
	if err != nil {
		return a.buildError(r.WithContext(ctx), err)
	}

	urlsBuilt.Add(1)

	etag := ETag(result.URL)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	return handler.JSON(w, result)
}

func (a *API) batchHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	var requests []params.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBodySize)).Decode(&requests); err != nil {
		return handler.BadRequest("Invalid request body")
	}

	ctx, span := a.tracer().Start(r.Context(), "api.build-batch")
	defer span.End()

	results, err := params.BuildAll(ctx, a.Thumbor, requests, a.BatchLimit)
	if err != nil {
		return a.buildError(r.WithContext(ctx), err)
	}

	urlsBuilt.Add(int64(len(results)))

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	return handler.JSON(w, results)
}

func (a *API) signHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	path := r.URL.Query().Get("path")
	if path == "" {
		return handler.BadRequest("Invalid path")
	}

	url, err := a.Thumbor.BuildURL(path)
	if err != nil {
		a.logError(r, "error signing path", err)
		return handler.InternalServerError()
	}

	urlsSigned.Add(1)

	w.Header().Set("Cache-Control", "public, max-age=3600")
	return handler.JSON(w, SignedURL{URL: url})
}

// ETag returns the entity tag for a built url, a murmur3 hash of it
func ETag(url string) string {
	return `"` + strconv.FormatUint(murmur3.StringSum64(url), 16) + `"`
}

// buildError maps an error from building a url to a http error
func (a *API) buildError(r *http.Request, err error) *handler.Error {
	if isClientError(err) {
		return handler.BadRequest(err.Error())
	}

	a.logError(r, "error building url", err)
	return handler.InternalServerError()
}

func isClientError(err error) bool {
	for _, clientErr := range []error{
		thumbor.ErrInvalidLocator,
		params.ErrInvalidSize,
		params.ErrInvalidCrop,
		params.ErrInvalidFit,
		params.ErrInvalidAlign,
		params.ErrInvalidTrim,
		params.ErrInvalidFilter,
	} {
		if errors.Is(err, clientErr) {
			return true
		}
	}

	return false
}
