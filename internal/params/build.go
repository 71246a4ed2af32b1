package params

import (
	"context"
	"fmt"

	"github.com/DMarby/thumbor-url/internal/thumbor"
	"golang.org/x/sync/errgroup"
)

// Result is a built thumbor url
type Result struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Build builds the thumbor url for a request
func Build(t *thumbor.Thumbor, r *Request) (*Result, error) {
	image, err := r.BuildImage(t)
	if err != nil {
		return nil, err
	}

	path, err := image.Path()
	if err != nil {
		return nil, err
	}

	var url string
	if r.Unsafe {
		url, err = image.UnsafeURL()
	} else {
		url, err = image.URL()
	}

	if err != nil {
		return nil, err
	}

	return &Result{
		Path: path,
		URL:  url,
	}, nil
}

// BuildAll builds the thumbor urls for multiple requests concurrently, preserving their order
// The first error cancels the remaining requests
func BuildAll(ctx context.Context, t *thumbor.Thumbor, requests []Request, limit int) ([]Result, error) {
	results := make([]Result, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range requests {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := Build(t, &requests[i])
			if err != nil {
				return &BuildError{Index: i, Err: err}
			}

			results[i] = *result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// BuildError is returned by BuildAll when one of the requests is invalid
type BuildError struct {
	Index int
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("request %d: %s", e.Index, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
