package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches quotes from the Yahoo Finance chart endpoint. The
// caller controls the timeout through the injected http.Client.
type YahooClient struct {
	HTTP    *http.Client
	BaseURL string
}

func NewYahooClient(httpClient *http.Client, baseURL string) *YahooClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultYahooBaseURL
	}
	return &YahooClient{HTTP: httpClient, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (c *YahooClient) Name() string { return "Yahoo Finance" }

func (c *YahooClient) Fetch(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Quote{}, fmt.Errorf("empty symbol")
	}
	endpoint := c.BaseURL + "/v8/finance/chart/" + url.PathEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("User-Agent", "etfolio/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Quote{}, fmt.Errorf("http %d", resp.StatusCode)
	}

	var parsed struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice *float64 `json:"regularMarketPrice"`
					Currency           string   `json:"currency"`
				} `json:"meta"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Quote{}, err
	}
	if parsed.Chart.Error != nil {
		return Quote{}, fmt.Errorf("upstream: %s", parsed.Chart.Error.Code)
	}
	if len(parsed.Chart.Result) == 0 || parsed.Chart.Result[0].Meta.RegularMarketPrice == nil {
		return Quote{}, fmt.Errorf("no price data for %s", symbol)
	}

	meta := parsed.Chart.Result[0].Meta
	currency := meta.Currency
	if currency == "" {
		currency = "EUR"
	}
	return Quote{
		Price:    decimal.NewFromFloat(*meta.RegularMarketPrice),
		Currency: currency,
	}, nil
}
