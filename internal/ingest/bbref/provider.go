package bbref

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/store"
)

// Provider serves game logs scraped from Basketball-Reference player pages
type Provider struct {
	baseURL string
	fetcher Fetcher
	logger  logging.Logger
}

func NewProvider(baseURL string, fetcher Fetcher, logger logging.Logger) *Provider {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Provider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		fetcher: fetcher,
		logger:  logger.With("component", "bbref-provider"),
	}
}

// GameLog fetches the regular-season game log of a player, newest first.
func (p *Provider) GameLog(ctx context.Context, player store.Player, season string) ([]store.GameRow, error) {
	slug, err := PlayerSlug(player.FullName)
	if err != nil {
		return nil, err
	}
	year, err := SeasonEndYear(season)
	if err != nil {
		return nil, err
	}

	initial := string([]rune(slug)[:1])
	url := fmt.Sprintf("%s/players/%s/%s/gamelog/%d", p.baseURL, initial, slug, year)
	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return nil, err
	}
	games, err := ParseGameLog(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing game log of %s: %w", player.FullName, err)
	}

	p.logger.Debug("fetched game log", "player", player.FullName, "slug", slug, "games", len(games))
	return games, nil
}

// PlayerSlug derives the Basketball-Reference id of a player: the first five
// letters of the last name, the first two of the first name and "01".
// Players sharing a slug prefix get higher suffixes on the site; those are
// not recoverable from the name alone.
func PlayerSlug(fullName string) (string, error) {
	parts := strings.Fields(store.FoldName(fullName))
	// Generational suffixes are not part of the slug
	if n := len(parts); n > 2 {
		switch strings.TrimSuffix(parts[n-1], ".") {
		case "jr", "sr", "ii", "iii", "iv":
			parts = parts[:n-1]
		}
	}
	if len(parts) < 2 {
		return "", fmt.Errorf("cannot derive slug from name %q", fullName)
	}

	first := lettersOnly(parts[0])
	last := lettersOnly(strings.Join(parts[1:], ""))
	if first == "" || last == "" {
		return "", fmt.Errorf("cannot derive slug from name %q", fullName)
	}
	return truncate(last, 5) + truncate(first, 2) + "01", nil
}

// SeasonEndYear maps "2024-25" to 2025, the year Basketball-Reference files
// the season under.
func SeasonEndYear(season string) (int, error) {
	start, _, ok := strings.Cut(season, "-")
	year, err := strconv.Atoi(start)
	if !ok || err != nil || len(start) != 4 {
		return 0, fmt.Errorf("invalid season %q", season)
	}
	return year + 1, nil
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
