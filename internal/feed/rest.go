package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kipto05/ict-ml/internal/model"
)

// RESTFetcher implements Fetcher against a bar-history REST API (an MT5
// terminal bridge in production).
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape. Prices arrive as JSON numbers and are
// decoded through json.Number so no float rounding sneaks in.
type restBar struct {
	Timestamp  int64       `json:"timestamp"`
	Open       json.Number `json:"open"`
	High       json.Number `json:"high"`
	Low        json.Number `json:"low"`
	Close      json.Number `json:"close"`
	TickVolume int64       `json:"tick_volume"`
	RealVolume int64       `json:"real_volume"`
	Spread     int         `json:"spread"`
}

func (f *RESTFetcher) FetchBars(symbol, timeframe string, limit int) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars?symbol=%s&timeframe=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(timeframe), limit)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.APIKey != "" {
		req.Header.Set("X-API-Key", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("bar API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw []restBar
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}

	bars := make([]model.PriceBar, 0, len(raw))
	for i, rb := range raw {
		bar, err := decodeRestBar(symbol, timeframe, rb)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
	return bars, nil
}

func decodeRestBar(symbol, timeframe string, rb restBar) (model.PriceBar, error) {
	open, err := decimal.NewFromString(rb.Open.String())
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("parse open %q: %w", rb.Open, err)
	}
	high, err := decimal.NewFromString(rb.High.String())
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("parse high %q: %w", rb.High, err)
	}
	low, err := decimal.NewFromString(rb.Low.String())
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("parse low %q: %w", rb.Low, err)
	}
	close, err := decimal.NewFromString(rb.Close.String())
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("parse close %q: %w", rb.Close, err)
	}
	return model.NewPriceBar(symbol, timeframe, time.Unix(rb.Timestamp, 0).UTC(),
		open, high, low, close, rb.TickVolume, rb.RealVolume, rb.Spread)
}
