package ratesapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
)

type apiError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

type latestResponse struct {
	Success   *bool              `json:"success"`
	Error     *apiError          `json:"error"`
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Date      string             `json:"date"`
	Rates     map[string]float64 `json:"rates"`
}

// decodeJSON decodes the latest endpoint body. The API answers 200 on failures too,
// a false success flag is reported as a network failure carrying the API message
func decodeJSON(b []byte) (provider.RateTable, error) {
	var resp latestResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return provider.RateTable{}, fmt.Errorf("%w: %v", provider.ErrParse, err)
	}

	if resp.Success != nil && !*resp.Success {
		if resp.Error == nil {
			return provider.RateTable{}, fmt.Errorf("%w: api request failed", provider.ErrNetwork)
		}

		return provider.RateTable{}, fmt.Errorf(
			"%w: api error %d %s: %s", provider.ErrNetwork, resp.Error.Code, resp.Error.Type, resp.Error.Info,
		)
	}

	if resp.Base == "" || len(resp.Rates) == 0 {
		return provider.RateTable{}, fmt.Errorf("%w: missing base or rates", provider.ErrParse)
	}

	var issued time.Time
	if resp.Timestamp > 0 {
		issued = time.Unix(resp.Timestamp, 0).UTC()
	}

	rates := make(map[label.Symbol]float64, len(resp.Rates))
	for code, rate := range resp.Rates {
		rates[label.Symbol(strings.ToUpper(code))] = rate
	}

	return provider.NewRateTable(label.Symbol(strings.ToUpper(resp.Base)), issued, rates)
}
