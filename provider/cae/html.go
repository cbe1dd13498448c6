package cae

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/robotomize/gocyconv/internal/strutil"
	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
	"golang.org/x/net/html"
)

var (
	errParseAttrNotValid = fmt.Errorf("%w: attr is not valid", provider.ErrParse)
	errHTMLNotValid      = fmt.Errorf("%w: html not valid", provider.ErrParse)
)

const (
	dateSelector  = "#ratesDatePicker > h3 > span > span"
	rowsSelector  = "#ratesDateTable tbody tr"
	datePrefix    = "Date"
	dateLayout    = "02-01-2006"
	cellsRequired = 2
)

// aedLatestRates holds the price of one unit of each currency in dirhams
type aedLatestRates struct {
	time  time.Time
	rates map[label.Symbol]float64
}

func parseHTML(b []byte) (aedLatestRates, error) {
	root, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return aedLatestRates{}, fmt.Errorf("%w: html parse: %v", errHTMLNotValid, err)
	}

	doc := goquery.NewDocumentFromNode(root)

	date := strings.TrimSpace(doc.Find(dateSelector).First().Text())
	if !strings.HasPrefix(date, datePrefix) {
		return aedLatestRates{}, fmt.Errorf("%w: date %q", errParseAttrNotValid, date)
	}

	dt, err := time.Parse(dateLayout, strings.TrimSpace(strings.TrimPrefix(date, datePrefix)))
	if err != nil {
		return aedLatestRates{}, fmt.Errorf("%w: %v", errParseAttrNotValid, err)
	}

	dailyRates := aedLatestRates{
		time:  dt,
		rates: make(map[label.Symbol]float64),
	}

	var rowErr error
	doc.Find(rowsSelector).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < cellsRequired {
			rowErr = fmt.Errorf("%w: row has %d cells", errParseAttrNotValid, cells.Length())
			return false
		}

		name := cellText(cells.Eq(0))
		if name == "" {
			rowErr = fmt.Errorf("%w: empty currency name", errParseAttrNotValid)
			return false
		}

		symbol, ok := label.Names[name]
		if !ok {
			return true
		}

		rate, err := strconv.ParseFloat(cellText(cells.Eq(1)), 64)
		if err != nil || rate <= 0 {
			rowErr = fmt.Errorf("%w: rate for %s", errParseAttrNotValid, symbol)
			return false
		}

		dailyRates.rates[symbol] = rate

		return true
	})

	if rowErr != nil {
		return aedLatestRates{}, rowErr
	}

	return dailyRates, nil
}

func cellText(s *goquery.Selection) string {
	return strutil.RemoveExtraSpaces(strutil.RemoveContentIntoBrackets(s.Text()))
}
