package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/DMarby/thumbor-url/internal/cmd"
	"github.com/DMarby/thumbor-url/internal/logger"
	"github.com/DMarby/thumbor-url/internal/params"
	"github.com/DMarby/thumbor-url/internal/thumbor"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// stringList is a flag that can be repeated
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Comandline flags
var (
	// Global
	loglevel = zap.LevelFlag("log-level", zap.WarnLevel, "log level (default \"warn\") (debug, info, warn, error, dpanic, panic, fatal)")
	timeout  = flag.Duration("timeout", 30*time.Second, "time to wait for a manifest to be built before giving up")

	// Thumbor
	serverURL   = flag.String("server-url", "http://localhost:8888", "url of the thumbor server the urls are built for")
	securityKey = flag.String("security-key", "", "thumbor security key to sign urls with, unsigned unsafe urls are built if empty")

	// Manifest
	manifestPath = flag.String("manifest", "", "path to a json list of requests to build urls for, one url is printed per line")
	batchLimit   = flag.Int("batch-limit", cmd.DefaultBatchLimit, "max number of urls built concurrently for a manifest")

	// Single url
	image      = flag.String("image", "", "url of the image")
	width      = flag.Int("width", 0, "width to resize to, 0 keeps the aspect ratio and a negative width flips the image")
	height     = flag.Int("height", 0, "height to resize to, 0 keeps the aspect ratio and a negative height flips the image")
	hflip      = flag.Bool("hflip", false, "flip the image horizontally")
	vflip      = flag.Bool("vflip", false, "flip the image vertically")
	crop       = flag.String("crop", "", "crop box as top-left,top-right,bottom-left,bottom-right")
	fit        = flag.String("fit", "", "fit mode (fit-in, full-fit-in)")
	halign     = flag.String("halign", "", "horizontal alignment (left, center, right)")
	valign     = flag.String("valign", "", "vertical alignment (top, middle, bottom)")
	smart      = flag.Bool("smart", false, "use smart cropping")
	trim       = flag.String("trim", "", "trim mode (top-left, bottom-right)")
	unsafeURL  = flag.Bool("unsafe", false, "build an unsigned url even if a security key is set")
	printPath  = flag.Bool("path", false, "print the canonical path instead of the url")
	filters    stringList
	watermarks stringList
)

func main() {
	flag.Var(&filters, "filter", "filter to apply as name(args), can be repeated")
	flag.Var(&watermarks, "watermark", "watermark arguments as url,x,y,alpha, can be repeated")

	// Parse environment variables
	envy.Parse("THUMBOR")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.NewWithOutput(*loglevel, os.Stderr, os.Stderr)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Debugf))

	th, err := thumbor.New(*serverURL, *securityKey)
	if err != nil {
		log.Fatalf("error initializing thumbor: %s", err)
	}

	var requests []params.Request
	if *manifestPath != "" {
		requests, err = readManifest(*manifestPath)
	} else {
		requests, err = requestFromFlags()
	}

	if err != nil {
		log.Fatalf("error reading requests: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, os.Stdout, th, requests, *batchLimit, *printPath); err != nil {
		log.Fatalf("error building urls: %s", err)
	}
}

func run(ctx context.Context, w io.Writer, th *thumbor.Thumbor, requests []params.Request, limit int, printPath bool) error {
	results, err := params.BuildAll(ctx, th, requests, limit)
	if err != nil {
		return err
	}

	for _, result := range results {
		out := result.URL
		if printPath {
			out = result.Path
		}

		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}

	return nil
}

func readManifest(path string) ([]params.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var requests []params.Request
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	return requests, nil
}

func requestFromFlags() ([]params.Request, error) {
	box, err := params.ParseCrop(*crop)
	if err != nil {
		return nil, err
	}

	req := params.Request{
		Image:      *image,
		HFlip:      *hflip,
		VFlip:      *vflip,
		Crop:       box,
		Fit:        *fit,
		HAlign:     *halign,
		VAlign:     *valign,
		Smart:      *smart,
		Trim:       *trim,
		Filters:    filters,
		Watermarks: watermarks,
		Unsafe:     *unsafeURL,
	}

	if isSet("width") || isSet("height") {
		w, h := *width, *height
		req.Width, req.Height = &w, &h
	}

	return []params.Request{req}, nil
}

// isSet reports whether a flag was passed on the commandline
func isSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})

	return
}
