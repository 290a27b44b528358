package plot

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Renderer rasterizes an SVG document to PNG.
type Renderer interface {
	RenderPNG(ctx context.Context, svg []byte, width, height int) ([]byte, error)
}

// ChromeRenderer rasterizes through headless Chrome.
type ChromeRenderer struct {
	Timeout time.Duration // default 30s
}

// RenderPNG implements Renderer.
func (r ChromeRenderer) RenderPNG(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(width, height),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	dataURL := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)

	var png []byte
	if err := chromedp.Run(runCtx,
		chromedp.Navigate(dataURL),
		chromedp.FullScreenshot(&png, 100),
	); err != nil {
		return nil, eris.Wrap(err, "plot: render png")
	}
	return png, nil
}

// WriteScatter draws points to path. A .png path is rasterized with
// renderer; if that fails the SVG is written next to it instead and a
// warning logged. The path actually written is returned.
func WriteScatter(ctx context.Context, points []Point, opts Options, renderer Renderer, path string) (string, error) {
	svg := ScatterSVG(points, opts)
	svgPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".svg"

	if strings.EqualFold(filepath.Ext(path), ".png") && renderer != nil {
		w, h := opts.size()
		png, err := renderer.RenderPNG(ctx, svg, w, h)
		if err == nil {
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return "", eris.Wrap(err, "plot: write png")
			}
			return path, nil
		}
		zap.L().Warn("plot: png rendering failed, writing svg instead",
			zap.String("path", svgPath),
			zap.Error(err),
		)
	}

	if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
		return "", eris.Wrap(err, "plot: write svg")
	}
	return svgPath, nil
}
