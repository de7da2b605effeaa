package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Price is a unit price. Older documents stored prices as the string the
// product page rendered ("25.00"), so both JSON numbers and numeric strings
// decode.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*p = Price(f)
	return nil
}

// ParsePrice reads a decimal price, tolerating a leading currency sign.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	return Price(f), nil
}

func (p Price) Float() float64 { return float64(p) }

// String formats the price with two decimals, the way it is displayed.
func (p Price) String() string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}
