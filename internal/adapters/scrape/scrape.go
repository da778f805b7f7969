// Package scrape fetches the leaderboard page and extracts the
// structured per-game score blocks the core consumes.
//
// This is a thin collaborator: it produces period blocks and avatar
// filename references, nothing else. A fetch or parse failure here is
// fatal to the ingestion run that requested it (the caller must not
// merge on a failed fetch) but never touches previously persisted
// state.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/scorevault/internal/domain/model"
)

// Default source configuration constants.
const (
	defaultFetchTimeout = 30 * time.Second
	userAgent           = "scorevault/1.0"
)

// Result is one scrape of the page: the per-game blocks plus the
// absolute URL of every avatar reference seen, keyed by filename, for
// the mirror to download.
type Result struct {
	Games   map[string]model.GameDay
	Avatars map[string]string
}

// Source produces one structured capture of the leaderboard page.
type Source interface {
	Fetch(ctx context.Context) (*Result, error)
}

// PageSource implements Source over HTTP with goquery extraction.
type PageSource struct {
	url    string
	client *http.Client
}

// NewPageSource creates a PageSource for the given page URL.
func NewPageSource(pageURL string, opts ...Option) *PageSource {
	s := &PageSource{
		url:    pageURL,
		client: &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads and parses the page.
func (s *PageSource) Fetch(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}
	return Parse(resp.Body, s.url)
}

// Parse extracts game sections from page HTML. baseURL resolves
// relative avatar image sources; it may be empty in tests.
//
// Expected structure, one section per game:
//
//	section.game[data-game]        game id
//	  h2                           display name
//	  div.period[data-period]      today | yesterday | highscores
//	    img.top-avatar[src]        optional top player image
//	    table tr > td{.rank,.name,.score}
func Parse(r io.Reader, baseURL string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	out := &Result{
		Games:   make(map[string]model.GameDay),
		Avatars: make(map[string]string),
	}

	doc.Find("section.game").Each(func(_ int, sec *goquery.Selection) {
		id := strings.TrimSpace(sec.AttrOr("data-game", ""))
		if id == "" {
			return
		}
		day := model.GameDay{
			Name: strings.TrimSpace(sec.Find("h2").First().Text()),
		}

		sec.Find("div.period").Each(func(_ int, div *goquery.Selection) {
			blk, avatarURL := parseBlock(div, baseURL)
			if blk.TopAvatarRef != "" && avatarURL != "" {
				out.Avatars[blk.TopAvatarRef] = avatarURL
			}
			switch div.AttrOr("data-period", "") {
			case "today":
				day.Today = blk
			case "yesterday":
				day.Yesterday = blk
			case "highscores":
				day.Highscores = blk
			}
		})

		out.Games[id] = day
	})

	if len(out.Games) == 0 {
		return nil, fmt.Errorf("%w: no game sections found", ErrParse)
	}
	return out, nil
}

func parseBlock(div *goquery.Selection, baseURL string) (model.PeriodBlock, string) {
	var blk model.PeriodBlock
	var avatarURL string

	if src, ok := div.Find("img.top-avatar").First().Attr("src"); ok {
		if name, abs := avatarRef(src, baseURL); name != "" {
			blk.TopAvatarRef = name
			avatarURL = abs
		}
	}

	div.Find("table tr").Each(func(i int, tr *goquery.Selection) {
		name := strings.TrimSpace(tr.Find("td.name").Text())
		if name == "" {
			return
		}
		entry := model.ScoreEntry{
			Rank:     parseInt(tr.Find("td.rank").Text()),
			Username: name,
			Score:    parseInt(tr.Find("td.score").Text()),
		}
		if entry.Rank == 0 {
			entry.Rank = len(blk.Scores) + 1
		}
		blk.Scores = append(blk.Scores, entry)
	})

	return blk, avatarURL
}

// avatarRef reduces an image source to (filename, absolute URL). Only
// the filename is ever persisted; the presentation layer resolves it
// against the mirror.
func avatarRef(src, baseURL string) (string, string) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", ""
	}
	u, err := url.Parse(src)
	if err != nil {
		return "", ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", ""
	}

	abs := src
	if baseURL != "" {
		if base, err := url.Parse(baseURL); err == nil {
			abs = base.ResolveReference(u).String()
		}
	}
	return name, abs
}

// parseInt reads a ranked-table number, tolerating "#3", "1,204" and
// surrounding whitespace. Unparseable input yields 0.
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
