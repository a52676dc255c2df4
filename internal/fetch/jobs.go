package fetch

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// JobPosting is the readable form of a fetched job description.
type JobPosting struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	Platform    Platform `json:"platform"`
	UsedBrowser bool     `json:"used_browser,omitempty"`
}

// JobDescription fetches a posting and extracts its title and main text using platform-aware selectors.
// When UseBrowser is set and the static HTML yields too little text, the page is rendered headless
// and the longer extraction wins.
func JobDescription(ctx context.Context, urlStr string, opts *Options) (*JobPosting, error) {
	opts = opts.withDefaults()
	platform := DetectPlatform(urlStr)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	res, err := URL(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}

	text, err := ExtractMainText(res.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	posting := &JobPosting{
		URL:      urlStr,
		Title:    ExtractTitle(res.HTML),
		Text:     text,
		Platform: platform,
	}

	if opts.UseBrowser && ShouldUseBrowser(text) {
		opts.Logger.Info("static content too short, rendering in browser",
			zap.String("url", urlStr), zap.Int("chars", len(text)))
		html, renderErr := opts.Render(ctx, urlStr, opts.BrowserTimeout, opts.Logger)
		if renderErr != nil {
			opts.Logger.Warn("browser rendering failed, keeping static content", zap.Error(renderErr))
		} else if rendered, extractErr := ExtractMainText(html, content, noise...); extractErr == nil && len(rendered) > len(text) {
			posting.Text = rendered
			posting.UsedBrowser = true
			if title := ExtractTitle(html); title != "" {
				posting.Title = title
			}
		}
	}

	if strings.TrimSpace(posting.Text) == "" {
		return nil, &Error{URL: urlStr, Message: "no readable text found"}
	}
	return posting, nil
}
