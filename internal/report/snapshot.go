package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	snapshotWidthPx  = 1280
	snapshotHeightPx = 2400
	snapshotSettle   = 1500 * time.Millisecond
	snapshotTimeout  = 30 * time.Second
)

var (
	headlessOnce sync.Once
	headlessErr  error
)

// EnsureHeadlessAvailable verifies a headless Chrome can be launched.
// The probe runs once per process.
func EnsureHeadlessAvailable(ctx context.Context) error {
	headlessOnce.Do(func() {
		targetCtx := ctx
		if targetCtx == nil {
			targetCtx = context.Background()
		}
		parent, cancel := chromedp.NewContext(targetCtx)
		if cancel != nil {
			defer cancel()
		}
		headlessErr = chromedp.Run(parent)
	})
	return headlessErr
}

// Snapshot renders the dashboard to HTML and screenshots it with
// headless Chrome, returning PNG bytes.
func Snapshot(ctx context.Context, r *Report) ([]byte, error) {
	if err := EnsureHeadlessAvailable(ctx); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := RenderHTML(&buf, r); err != nil {
		return nil, err
	}
	return renderHTMLToPNG(ctx, buf.Bytes(), snapshotWidthPx, snapshotHeightPx)
}

func renderHTMLToPNG(ctx context.Context, html []byte, width, height int) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	parent, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(parent, snapshotTimeout)
	defer cancelTimeout()

	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(dataURI),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(snapshotSettle),
		chromedp.FullScreenshot(&screenshot, 0),
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, err
	}
	return screenshot, nil
}
