package source

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"nodeprobe/internal/shared/logger"
)

const scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

// HTMLTableSource 抓取形如 <table>ip | port | ...</table> 的代理列表页面。
type HTMLTableSource struct {
	url    string
	client *http.Client
}

func NewHTMLTableSource(url string) Source {
	return &HTMLTableSource{
		url: url,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (s *HTMLTableSource) Name() string { return s.url }

func (s *HTMLTableSource) Fetch() ([]map[string]any, error) {
	l := logger.WithComponent("Source/HTMLTable")
	l.Info().Str("url", s.url).Msg("Starting scrape...")

	req, err := http.NewRequest(http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("received non-200 status code (%d) from %s", resp.StatusCode, s.url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", s.url, err)
	}

	var rawNodes []map[string]any
	doc.Find("table tbody tr").Each(func(j int, sel *goquery.Selection) {
		ip := strings.TrimSpace(sel.Find("td").Eq(0).Text())
		portStr := strings.TrimSpace(sel.Find("td").Eq(1).Text())
		if ip == "" || portStr == "" {
			return
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			l.Warn().Str("ip", ip).Str("port", portStr).Msg("Failed to parse port, skipping row.")
			return
		}
		rawNodes = append(rawNodes, map[string]any{
			"name":     fmt.Sprintf("%s:%d", ip, port),
			"ip":       ip,
			"port":     port,
			"protocol": "http",
		})
	})

	l.Info().Int("count", len(rawNodes)).Str("url", s.url).Msg("Scrape finished.")
	return rawNodes, nil
}
