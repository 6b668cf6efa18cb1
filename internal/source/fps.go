package source

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"nodeprobe/internal/shared/logger"
)

// fpsEntry 定义了页面 JS 变量 fpsList 中单条记录的结构。
type fpsEntry struct {
	IP   string `json:"ip"`
	Port string `json:"port"`
}

var fpsListPattern = regexp.MustCompile(`(var|let|const)\s+fpsList\s*=\s*(\[.*?\]);`)

// FPSSource 抓取把代理列表藏在页面 JS 变量里的站点
// （fpsList 变量，JSON 数组字面量）。
type FPSSource struct {
	url       string
	collector *colly.Collector
}

func NewFPSSource(url string) Source {
	c := colly.NewCollector(
		colly.UserAgent(scrapeUserAgent),
	)
	c.SetRequestTimeout(20 * time.Second)
	return &FPSSource{url: url, collector: c}
}

func (s *FPSSource) Name() string { return s.url }

func (s *FPSSource) Fetch() ([]map[string]any, error) {
	l := logger.WithComponent("Source/FPS")
	l.Info().Str("url", s.url).Msg("Starting scrape...")

	var rawNodes []map[string]any
	var scrapeErr error
	var mu sync.Mutex

	s.collector.OnResponse(func(r *colly.Response) {
		matches := fpsListPattern.FindSubmatch(r.Body)
		if len(matches) < 3 {
			mu.Lock()
			scrapeErr = fmt.Errorf("could not find fpsList variable at %s", r.Request.URL)
			mu.Unlock()
			return
		}

		var entries []fpsEntry
		if err := json.Unmarshal(matches[2], &entries); err != nil {
			mu.Lock()
			scrapeErr = fmt.Errorf("failed to unmarshal fpsList: %w", err)
			mu.Unlock()
			return
		}

		mu.Lock()
		defer mu.Unlock()
		for _, entry := range entries {
			if entry.IP == "" || entry.Port == "" {
				continue
			}
			rawNodes = append(rawNodes, map[string]any{
				"name":     entry.IP + ":" + entry.Port,
				"ip":       entry.IP,
				"port":     entry.Port,
				"protocol": "http",
			})
		}
	})

	if err := s.collector.Visit(s.url); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", s.url, err)
	}
	s.collector.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	l.Info().Int("count", len(rawNodes)).Str("url", s.url).Msg("Scrape finished.")
	return rawNodes, nil
}
