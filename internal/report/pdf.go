package report

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"os"
	"time"

	"resolution-diagnostic/internal/common/config"
	"resolution-diagnostic/internal/common/errors"
	"resolution-diagnostic/internal/diagnostic"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Renderer prints records to PDF through a headless Chromium.
type Renderer struct {
	chromePath string
	timeout    time.Duration
	now        func() time.Time
}

func NewRenderer(cfg config.ReportConfig) *Renderer {
	path := cfg.ChromePath
	if path == "" {
		path = detectChromePath()
	}
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Renderer{chromePath: path, timeout: timeout, now: time.Now}
}

// Markdown renders the ledger stamped with the renderer's clock.
func (r *Renderer) Markdown(res *diagnostic.Result) string {
	return Markdown(res, r.now())
}

// Render produces an A4 PDF of the record.
func (r *Renderer) Render(ctx context.Context, res *diagnostic.Result) ([]byte, error) {
	doc, err := HTMLDocument(r.Markdown(res), "Diagnostic Record: "+res.State.Label)
	if err != nil {
		return nil, errors.NewReportRenderError(err)
	}

	pdf, err := r.print(ctx, doc)
	if stderrors.Is(err, context.DeadlineExceeded) {
		return nil, errors.NewReportTimeoutError(r.timeout)
	}
	if err != nil {
		return nil, errors.NewReportRenderError(err)
	}
	return pdf, nil
}

func (r *Renderer) print(ctx context.Context, htmlDoc string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("main", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:8px;color:#78716c;">` +
				`Confidential // Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.6).
				WithMarginBottom(0.75).
				WithMarginLeft(0.6).
				WithMarginRight(0.6).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	)
	if err != nil && timeoutCtx.Err() != nil {
		return nil, timeoutCtx.Err()
	}
	return pdf, err
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
