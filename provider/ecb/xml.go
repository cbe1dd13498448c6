package ecb

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/robotomize/gocyconv/label"
)

const xmlCubeElement = "Cube"

// decodeXML parses xml in streaming mode and returns the rates of the first dated Cube element
func decodeXML(b []byte) (euroLatestRates, error) {
	decoder := xml.NewDecoder(bytes.NewReader(b))
	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return euroLatestRates{}, errRatesNotFound
			}

			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return euroLatestRates{}, fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
			}

			return euroLatestRates{}, fmt.Errorf("%w: decode token: %v", errDecodeToken, err)
		}

		tp, ok := token.(xml.StartElement)
		if !ok || tp.Name.Local != xmlCubeElement || !hasAttr(tp, "time") {
			continue
		}

		// the dated Cube element holds the exchange rates for the day
		var node XMLNode
		if err := decoder.DecodeElement(&node, &tp); err != nil {
			var syntaxErr *xml.SyntaxError
			switch {
			case errors.As(err, &syntaxErr):
				return euroLatestRates{}, fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
			case errors.Is(err, errAttributeNotValid):
				return euroLatestRates{}, err
			default:
				return euroLatestRates{}, fmt.Errorf("%w: decode element: %v", errDecodeToken, err)
			}
		}

		dailyRate := euroLatestRates{
			time:  time.Time(node.Time),
			rates: make(map[label.Symbol]float64, len(node.Rates)),
		}

		for _, r := range node.Rates {
			symbol, err := label.Parse(r.Currency)
			if err != nil {
				continue
			}

			dailyRate.rates[symbol] = r.Rate.Float64()
		}

		return dailyRate, nil
	}
}

func hasAttr(el xml.StartElement, name string) bool {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return true
		}
	}

	return false
}

type XMLAttrTime time.Time

func (x *XMLAttrTime) UnmarshalXMLAttr(attr xml.Attr) error {
	t, err := time.Parse("2006-01-02", attr.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", errAttributeNotValid, err)
	}

	*x = XMLAttrTime(t)

	return nil
}

var _ xml.UnmarshalerAttr = (*XMLRateAttr)(nil)

type XMLRateAttr float64

func (i XMLRateAttr) Float64() float64 {
	return float64(i)
}

func (i *XMLRateAttr) UnmarshalXMLAttr(attr xml.Attr) error {
	rate, err := strconv.ParseFloat(attr.Value, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", errAttributeNotValid, err)
	}

	if rate <= 0 {
		return errAttributeNotValid
	}

	*i = XMLRateAttr(rate)

	return nil
}

type XMLNode struct {
	Time  XMLAttrTime `xml:"time,attr"`
	Rates []struct {
		Currency string      `xml:"currency,attr"`
		Rate     XMLRateAttr `xml:"rate,attr"`
	} `xml:"Cube"`
}
