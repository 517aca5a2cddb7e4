// Package titlecard renders styled title cards to PNG by laying them out as
// HTML in a headless browser and screenshotting the viewport. The browser
// gives us real text shaping and CSS layout for free, which matters for
// non-Latin scripts and long wrapped titles.
package titlecard

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"montage/logger"
)

// Session holds a headless browser for rendering. Reuse one session across
// cards; launching the browser dominates render time.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	Log      *logger.Logger
}

func NewSession(log *logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.Nop()
	}
	l := launcher.New().Headless(true)
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("error launching browser: %v", err)
	}
	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("error connecting to browser: %v", err)
	}
	return &Session{launcher: l, browser: browser, Log: log}, nil
}

func (s *Session) Close() {
	if s.browser != nil {
		s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
}

// capture loads the HTML into a fresh page at the given viewport and
// returns a PNG screenshot of it.
func (s *Session) capture(html string, width, height int) ([]byte, error) {
	var page *rod.Page
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.Log.Warn("failed to create page", "panic", r)
				page = nil
			}
		}()
		page = s.browser.MustPage()
	}()
	if page == nil {
		return nil, fmt.Errorf("failed to create page")
	}
	defer page.Close()
	page = page.Timeout(30 * time.Second)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("error setting viewport: %v", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("error setting page content: %v", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("error waiting for page load: %v", err)
	}
	// Give web fonts a beat to settle.
	page.WaitRequestIdle(2*time.Second, []string{}, []string{}, nil)

	screenshot, err := page.Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("error taking screenshot: %v", err)
	}
	return screenshot, nil
}
