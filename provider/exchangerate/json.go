package exchangerate

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
)

type latestResponse struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	TimeLastUpdated int64              `json:"time_last_updated"`
	Rates           map[string]float64 `json:"rates"`
}

func decodeJSON(b []byte) (provider.RateTable, error) {
	var resp latestResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return provider.RateTable{}, fmt.Errorf("%w: %v", provider.ErrParse, err)
	}

	if resp.Base == "" || len(resp.Rates) == 0 {
		return provider.RateTable{}, fmt.Errorf("%w: missing base or rates", provider.ErrParse)
	}

	var issued time.Time
	switch {
	case resp.TimeLastUpdated > 0:
		issued = time.Unix(resp.TimeLastUpdated, 0).UTC()
	case resp.Date != "":
		t, err := time.Parse("2006-01-02", resp.Date)
		if err != nil {
			return provider.RateTable{}, fmt.Errorf("%w: %v", provider.ErrParse, err)
		}
		issued = t
	}

	rates := make(map[label.Symbol]float64, len(resp.Rates))
	for code, rate := range resp.Rates {
		rates[label.Symbol(strings.ToUpper(code))] = rate
	}

	return provider.NewRateTable(label.Symbol(strings.ToUpper(resp.Base)), issued, rates)
}
