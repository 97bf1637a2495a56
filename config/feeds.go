package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"sheeets/internal/domain"
)

type feedsFile struct {
	Feeds []feedEntry `yaml:"feeds"`
}

type feedEntry struct {
	Conference string `yaml:"conference"`
	GID        string `yaml:"gid"`
	Year       int    `yaml:"year"`
}

// DefaultFeeds is used when no feeds file exists.
func DefaultFeeds(year int) []domain.Feed {
	return []domain.Feed{
		{Conference: "ETHDenver", GID: "356217373", Year: year},
	}
}

// LoadFeeds reads the conference tab list from a YAML file. A missing file
// yields DefaultFeeds; entries without a year inherit defaultYear.
func LoadFeeds(path string, defaultYear int) ([]domain.Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultFeeds(defaultYear), nil
		}
		return nil, fmt.Errorf("read feeds file: %w", err)
	}
	return parseFeeds(data, defaultYear)
}

func parseFeeds(data []byte, defaultYear int) ([]domain.Feed, error) {
	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse feeds file: %w", err)
	}
	feeds := make([]domain.Feed, 0, len(f.Feeds))
	seen := make(map[string]struct{}, len(f.Feeds))
	for i, e := range f.Feeds {
		if e.Conference == "" || e.GID == "" {
			return nil, fmt.Errorf("feed %d: conference and gid are required", i)
		}
		if _, dup := seen[e.Conference]; dup {
			return nil, fmt.Errorf("feed %d: duplicate conference %q", i, e.Conference)
		}
		seen[e.Conference] = struct{}{}
		year := e.Year
		if year == 0 {
			year = defaultYear
		}
		feeds = append(feeds, domain.Feed{Conference: e.Conference, GID: e.GID, Year: year})
	}
	if len(feeds) == 0 {
		return nil, errors.New("feeds file lists no feeds")
	}
	return feeds, nil
}
