package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sirupsen/logrus"

	"jobscout-engine/internal/source"
	"jobscout-engine/pkg/utils"
)

// Browser renders pages through a headless Chromium instance for portals
// that build their listings with JavaScript. The browser is launched lazily
// on first use and shared across requests.
type Browser struct {
	mu        sync.Mutex
	launcher  *launcher.Launcher
	browser   *rod.Browser
	headless  bool
	stealth   bool
	userAgent string
	logger    *logrus.Logger
}

// NewBrowser creates a browser-backed page fetcher.
func NewBrowser(headless, stealthMode bool, userAgent string) *Browser {
	return &Browser{
		headless:  headless,
		stealth:   stealthMode,
		userAgent: userAgent,
		logger:    utils.GetLogger(),
	}
}

// connect launches and connects the browser once.
func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().
		Headless(b.headless).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	b.launcher = l
	b.browser = browser
	b.logger.WithFields(logrus.Fields{
		"headless": b.headless,
		"stealth":  b.stealth,
	}).Info("Browser launched")
	return browser, nil
}

// HTML navigates to url and returns the rendered page HTML.
func (b *Browser) HTML(ctx context.Context, url string) (string, error) {
	browser, err := b.connect()
	if err != nil {
		return "", source.NewError(source.KindNetwork, err)
	}

	var page *rod.Page
	if b.stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return "", source.NewError(source.KindNetwork, fmt.Errorf("failed to create page: %w", err))
	}
	defer page.Close()

	page = page.Context(ctx)

	if b.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			b.logger.WithError(err).Debug("Failed to override user agent")
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", source.NewError(source.KindOf(err), fmt.Errorf("navigation failed: %w", err))
	}
	if err := page.WaitLoad(); err != nil {
		return "", source.NewError(source.KindOf(err), fmt.Errorf("page load failed: %w", err))
	}

	html, err := page.HTML()
	if err != nil {
		return "", source.NewError(source.KindOf(err), fmt.Errorf("failed to read page html: %w", err))
	}

	if looksLikeChallenge([]byte(html)) {
		return "", source.Errorf(source.KindBlocked, "challenge page served for %s", url)
	}

	return html, nil
}

// Close shuts the browser down and releases the launcher.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			b.logger.WithError(err).Warn("Error closing browser")
		}
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
		b.launcher = nil
	}
}
