package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/inkvoice/inkvoice/internal/config"
	obsmetrics "github.com/inkvoice/inkvoice/internal/observability/metrics"
	"go.uber.org/zap"
)

// ChromeRenderer runs each render in an isolated headless Chrome session.
// Sessions are bounded by a semaphore and torn down on every path.
type ChromeRenderer struct {
	log     *zap.Logger
	cfg     *config.RenderConfigHolder
	metrics *obsmetrics.Metrics
	sem     chan struct{}
}

// NewChromeRenderer sizes the session semaphore from the config at
// startup. The remaining render settings are re-read on every call.
func NewChromeRenderer(log *zap.Logger, cfg *config.RenderConfigHolder, metrics *obsmetrics.Metrics) *ChromeRenderer {
	current := cfg.Current()
	return &ChromeRenderer{
		log:     log.Named("pdf.chrome"),
		cfg:     cfg,
		metrics: metrics,
		sem:     make(chan struct{}, current.MaxConcurrent),
	}
}

func (r *ChromeRenderer) Render(ctx context.Context, htmlFragment string) ([]byte, error) {
	cfg := r.cfg.Current()

	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, ctx.Err())
	}

	start := time.Now()
	buf, err := r.render(ctx, htmlFragment, cfg)
	if err != nil {
		r.metrics.RecordRender(ctx, "failure", time.Since(start))
		r.log.Error("pdf render failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	r.metrics.RecordRender(ctx, "success", time.Since(start))
	r.log.Info("pdf rendered",
		zap.Int("bytes", len(buf)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return buf, nil
}

func (r *ChromeRenderer) render(ctx context.Context, htmlFragment string, cfg config.RenderConfig) ([]byte, error) {
	fullHTML := wrapFragment(htmlFragment, cfg.MarginMM, cfg.ContentWidthMM)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	quiesce := newNetworkQuiesce()
	chromedp.ListenTarget(browserCtx, quiesce.handle)

	var heightPx float64
	var pdf []byte

	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			quiesce.arm()
			return page.SetDocumentContent(frameTree.Frame.ID, fullHTML).Do(ctx)
		}),
		// Measure only once the load event has fired and the network has
		// stayed quiet, so late images and fonts cannot grow the layout
		// after the height is read.
		chromedp.ActionFunc(func(ctx context.Context) error {
			return quiesce.wait(ctx, networkQuietWindow)
		}),
		chromedp.WaitReady(".invoice-container", chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelector('.invoice-container').getBoundingClientRect().height`, &heightPx),
		chromedp.ActionFunc(func(ctx context.Context) error {
			contentHeightMM := pxToMM(heightPx, cfg.DPI)
			marginIn := mmToInches(cfg.MarginMM)

			// One page exactly: measured content plus a fixed allowance.
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(mmToInches(cfg.ContentWidthMM)).
				WithPaperHeight(mmToInches(contentHeightMM + cfg.HeightPaddingMM)).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}
