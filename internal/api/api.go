package api

import (
	"net/http"
	"time"

	"github.com/DMarby/thumbor-url/internal/handler"
	"github.com/DMarby/thumbor-url/internal/health"
	"github.com/DMarby/thumbor-url/internal/logger"
	"github.com/DMarby/thumbor-url/internal/thumbor"
	"github.com/DMarby/thumbor-url/internal/tracing"
	"github.com/gorilla/mux"
)

// API is a http api for building thumbor urls
type API struct {
	Thumbor        *thumbor.Thumbor
	HealthChecker  *health.Checker
	Log            *logger.Logger
	Tracer         *tracing.Tracer
	HandlerTimeout time.Duration
	BatchLimit     int // Max number of urls built concurrently for a batch request, 0 for no limit
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Redirect trailing slashes
	router.StrictSlash(true)

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET").Name("health")

	// Query parameters:
	// ?image={url} - The image to build a url for
	// ?width={width}&height={height} - Resize the image
	// ?hflip&vflip - Flip the image
	// ?crop={a},{b},{c},{d} - Crop the image
	// ?fit={fit-in|full-fit-in} - Fit the image
	// ?halign={left|center|right}&valign={top|middle|bottom} - Align the image
	// ?smart - Use smart cropping
	// ?trim={top-left|bottom-right} - Trim the image
	// ?filter={name}({args}) - Add a filter, can be repeated
	// ?watermark={args} - Add a watermark, can be repeated
	// ?unsafe - Build an unsigned url
	router.Handle("/url", handler.Handler(a.urlHandler)).Methods("GET").Name("url")

	// Build multiple urls from a json list of requests
	router.Handle("/urls", handler.Handler(a.batchHandler)).Methods("POST").Name("urls")

	// Query parameters:
	// ?path={path} - An already serialized path to sign
	router.Handle("/sign", handler.Handler(a.signHandler)).Methods("GET").Name("sign")

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, handling panics, request logging, setting CORS headers, and handler execution timeout
	h := handler.AddRequestID(handler.Recovery(a.Log, handler.Logger(a.Log, handler.CORS([]string{"ETag", handler.RequestIDHeader}, http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out.")))))

	return handler.Tracer(a.tracer(), handler.Metrics(h, routeMatcher), routeMatcher)
}

func (a *API) tracer() *tracing.Tracer {
	if a.Tracer == nil {
		a.Tracer = tracing.Noop(a.Log, "thumbor-api")
	}

	return a.Tracer
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}
