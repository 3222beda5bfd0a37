// Package scrape implements the URL recipe extraction engine: a chain
// of relay fetchers feeding a structured-markup stage and a heuristic
// DOM stage. Scraping never fails outright; every path degrades to a
// partial result tagged with a success flag.
package scrape

import (
	"bytes"
	"context"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/recipedex/recipedex/internal/metrics"
	"github.com/recipedex/recipedex/internal/recipe"
)

// Extraction stages reported on Result.Stage.
const (
	StageStructured = "structured"
	StageHeuristic  = "heuristic"
	StageSkeleton   = "skeleton"
)

const (
	defaultAttemptTimeout = 14 * time.Second
	defaultMinHTMLBytes   = 512
)

// Result is a recipe candidate pending user review. Success reports
// whether an extraction stage accepted the page; a false flag still
// carries a usable skeleton draft.
type Result struct {
	Recipe  recipe.Recipe `json:"recipe"`
	Success bool          `json:"success"`
	Stage   string        `json:"stage"`
}

// Config controls scraper behavior.
type Config struct {
	// AttemptTimeout bounds each relay attempt independently.
	AttemptTimeout time.Duration
	// MinHTMLBytes is the plausibility floor: shorter relay responses
	// are error pages or empty bodies and count as relay failures.
	MinHTMLBytes int
}

// Scraper runs the layered extraction strategy.
type Scraper struct {
	relays []Relay
	cfg    Config
	logger *zap.Logger
}

// New builds a Scraper.
func New(relays []Relay, cfg Config, logger *zap.Logger) *Scraper {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if cfg.MinHTMLBytes <= 0 {
		cfg.MinHTMLBytes = defaultMinHTMLBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{relays: relays, cfg: cfg, logger: logger}
}

// Scrape fetches pageURL through the relay chain and extracts a recipe
// candidate. It always returns a Result and never panics or errors:
// transport and parse failures degrade to the next stage and finally to
// a URL-derived skeleton.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) Result {
	html, ok := s.fetch(ctx, pageURL)
	if !ok {
		s.logger.Info("all relays exhausted", zap.String("url", pageURL))
		metrics.ObserveScrape(StageSkeleton, false)
		return s.skeleton(pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		s.logger.Warn("page parse failed", zap.String("url", pageURL), zap.Error(err))
		metrics.ObserveScrape(StageSkeleton, false)
		return s.skeleton(pageURL)
	}

	if rec, accepted := extractStructured(doc, pageURL); accepted {
		metrics.ObserveScrape(StageStructured, true)
		return Result{Recipe: rec, Success: true, Stage: StageStructured}
	}

	if rec, accepted := extractHeuristic(doc, pageURL); accepted {
		metrics.ObserveScrape(StageHeuristic, true)
		return Result{Recipe: rec, Success: true, Stage: StageHeuristic}
	}

	metrics.ObserveScrape(StageSkeleton, false)
	return s.skeleton(pageURL)
}

// fetch tries each relay in order, strictly sequentially: the goal is
// the first relay that works, not the fastest.
func (s *Scraper) fetch(ctx context.Context, pageURL string) ([]byte, bool) {
	for _, relay := range s.relays {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
		start := time.Now()
		body, err := relay.Fetch(attemptCtx, pageURL)
		cancel()

		switch {
		case err != nil:
			metrics.ObserveRelayAttempt(relay.Name(), "error", time.Since(start))
			s.logger.Debug("relay failed",
				zap.String("relay", relay.Name()),
				zap.String("url", pageURL),
				zap.Error(err))
		case len(body) < s.cfg.MinHTMLBytes:
			metrics.ObserveRelayAttempt(relay.Name(), "short", time.Since(start))
			s.logger.Debug("relay returned implausibly short body",
				zap.String("relay", relay.Name()),
				zap.Int("bytes", len(body)))
		default:
			metrics.ObserveRelayAttempt(relay.Name(), "ok", time.Since(start))
			return body, true
		}

		if ctx.Err() != nil {
			return nil, false
		}
	}
	return nil, false
}

// skeleton is the failure-stage result: a name guessed from the URL,
// empty lists, and the source preserved so the user keeps a bookmark.
func (s *Scraper) skeleton(pageURL string) Result {
	name := NameFromURL(pageURL)
	rec := recipe.Recipe{
		Name:     name,
		Category: recipe.Classify("", "", name, nil),
		Source:   pageURL,
	}
	rec.Normalize()
	return Result{Recipe: rec, Success: false, Stage: StageSkeleton}
}

// NameFromURL derives a display name from the last path segment:
// tokens split on hyphen and underscore, title-cased.
func NameFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "Unknown Recipe"
	}
	segment := path.Base(strings.TrimSuffix(u.Path, "/"))
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	if segment == "" || segment == "." || segment == "/" {
		return "Unknown Recipe"
	}

	tokens := strings.FieldsFunc(segment, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(tokens) == 0 {
		return "Unknown Recipe"
	}
	for i, tok := range tokens {
		runes := []rune(strings.ToLower(tok))
		runes[0] = unicode.ToUpper(runes[0])
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}
