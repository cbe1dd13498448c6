package rcb

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/robotomize/gocyconv/label"
	"golang.org/x/text/encoding/charmap"
)

const xmlRootElement = "ValCurs"

// decodeXML parses xml in streaming mode and returns the rouble price of each currency
func decodeXML(b []byte) (rubLatestRates, error) {
	decoder := xml.NewDecoder(bytes.NewReader(b))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "windows-1251":
			return charmap.Windows1251.NewDecoder().Reader(input), nil
		}

		return nil, fmt.Errorf("charset %s is not defined", charset)
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rubLatestRates{}, errRatesNotFound
			}

			return rubLatestRates{}, fmt.Errorf("%w: %v", errDecodeToken, err)
		}

		tp, ok := token.(xml.StartElement)
		if !ok || tp.Name.Local != xmlRootElement {
			continue
		}

		var node XMLNode
		if err := decoder.DecodeElement(&node, &tp); err != nil {
			if errors.Is(err, errAttributeNotValid) {
				return rubLatestRates{}, err
			}

			return rubLatestRates{}, fmt.Errorf("%w: %v", errDecodeToken, err)
		}

		dailyRates := rubLatestRates{
			time:  time.Time(node.Time),
			rates: make(map[label.Symbol]float64, len(node.Rates)),
		}

		for _, r := range node.Rates {
			symbol, err := label.Parse(r.Currency)
			if err != nil {
				continue
			}

			v, err := parseDecimal(r.Value)
			if err != nil {
				return rubLatestRates{}, fmt.Errorf("%w: value %s: %v", errAttributeNotValid, symbol, err)
			}

			nominal := 1.0
			if r.Nominal != "" {
				nominal, err = parseDecimal(r.Nominal)
				if err != nil {
					return rubLatestRates{}, fmt.Errorf("%w: nominal %s: %v", errAttributeNotValid, symbol, err)
				}
			}

			if v <= 0 || nominal <= 0 {
				return rubLatestRates{}, errAttributeNotValid
			}

			dailyRates.rates[symbol] = v / nominal
		}

		return dailyRates, nil
	}
}

// parseDecimal parses numbers written with a decimal comma
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

type XMLAttrTime time.Time

func (x *XMLAttrTime) UnmarshalXMLAttr(attr xml.Attr) error {
	t, err := time.Parse("02.01.2006", attr.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", errAttributeNotValid, err)
	}

	*x = XMLAttrTime(t)

	return nil
}

type XMLCcyRate struct {
	Currency string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Value    string `xml:"Value"`
}

type XMLNode struct {
	Time  XMLAttrTime  `xml:"Date,attr"`
	Rates []XMLCcyRate `xml:"Valute"`
}
