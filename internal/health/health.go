package health

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DMarby/thumbor-url/internal/logger"
	"github.com/DMarby/thumbor-url/internal/thumbor"
)

const checkInterval = 10 * time.Second
const checkTimeout = 8 * time.Second

// DefaultImageURL is the image url used to build a url when checking the signer
const DefaultImageURL = "http://localhost/healthcheck.jpg"

// Checker is a periodic health checker
type Checker struct {
	Ctx      context.Context
	Thumbor  *thumbor.Thumbor
	ImageURL string // Image url to build a url for. Defaults to DefaultImageURL
	status   Status
	mutex    sync.RWMutex
	Log      *logger.Logger
}

// Status contains the healtcheck status
type Status struct {
	Healthy bool   `json:"healthy"`
	Signer  string `json:"signer,omitempty"`
}

// Run starts the health checker
func (c *Checker) Run() {
	ticker := time.NewTicker(checkInterval)
	go func() {
		for {
			select {
			case <-ticker.C:
				c.runCheck()
			case <-c.Ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	c.runCheck()
}

// Status returns the status of the health checks
func (c *Checker) Status() Status {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.status
}

func (c *Checker) runCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	channel := make(chan Status, 1)
	go func() {
		c.check(ctx, channel)
	}()

	select {
	case <-ctx.Done():
		c.mutex.Lock()

		c.status = Status{
			Healthy: false,
		}
		if c.Thumbor != nil {
			c.status.Signer = "unknown"
		}

		c.mutex.Unlock()
		c.Log.Errorw("healthcheck timed out")
	case status, ok := <-channel:
		if !ok {
			return
		}

		c.mutex.Lock()
		c.status = status
		c.mutex.Unlock()
		if !status.Healthy {
			c.Log.Errorw("healthcheck error",
				"status", status,
			)
		}
	}
}

func (c *Checker) check(ctx context.Context, channel chan Status) {
	defer close(channel)

	if ctx.Err() != nil {
		return
	}

	status := Status{
		Healthy: true,
	}

	if c.Thumbor != nil {
		if err := c.checkSigner(); err != nil {
			c.Log.Errorw("signer healthcheck failed", "error", err)
			status.Healthy = false
			status.Signer = "unhealthy"
		} else {
			status.Signer = "healthy"
		}
	}

	if ctx.Err() != nil {
		return
	}

	channel <- status
}

// checkSigner builds a url for the health check image and verifies its signature
func (c *Checker) checkSigner() error {
	imageURL := c.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	image, err := c.Thumbor.BuildImage(imageURL)
	if err != nil {
		return err
	}

	path, err := image.Resize(1, 1).Smart(true).Path()
	if err != nil {
		return err
	}

	final, err := thumbor.FinalPath(path, c.Thumbor.HMAC)
	if err != nil {
		return err
	}

	prefix, rest, _ := strings.Cut(final, "/")
	if rest != path {
		return fmt.Errorf("final path %q does not end with %q", final, path)
	}

	if !c.Thumbor.Signed() {
		if prefix != "unsafe" {
			return fmt.Errorf("unexpected prefix %q for an unsigned url", prefix)
		}
		return nil
	}

	valid, err := c.Thumbor.HMAC.Validate(path, prefix)
	if err != nil {
		return err
	}

	if !valid {
		return fmt.Errorf("signature %q does not validate", prefix)
	}

	return nil
}
