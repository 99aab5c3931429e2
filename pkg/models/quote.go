package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/govalues/decimal"
)

// DateLayout is the wire format of Quote.Date.
const DateLayout = "2006-01-02 15:04:05"

// QuoteScale is the number of decimal places kept on sell/buy prices.
const QuoteScale = 4

var (
	// SellFactor marks the mid rate up by 1%.
	SellFactor = decimal.MustParse("1.01")
	// BuyFactor marks the mid rate down by 1%.
	BuyFactor = decimal.MustParse("0.99")
)

// Quote is the buy/sell price pair returned for one currency pair.
type Quote struct {
	Sell      decimal.Decimal
	Buy       decimal.Decimal
	Date      time.Time
	AccountID string
}

// NewQuote applies the spread to rate and stamps the quote with at (in UTC).
func NewQuote(rate decimal.Decimal, accountID string, at time.Time) (Quote, error) {
	sell, err := rate.Mul(SellFactor)
	if err != nil {
		return Quote{}, fmt.Errorf("sell price: %w", err)
	}
	buy, err := rate.Mul(BuyFactor)
	if err != nil {
		return Quote{}, fmt.Errorf("buy price: %w", err)
	}
	return Quote{
		Sell:      sell.Round(QuoteScale).Trim(0),
		Buy:       buy.Round(QuoteScale).Trim(0),
		Date:      at.UTC(),
		AccountID: accountID,
	}, nil
}

// quoteJSON is the wire shape of Quote.
type quoteJSON struct {
	Sell      json.Number `json:"sell"`
	Buy       json.Number `json:"buy"`
	Date      string      `json:"date"`
	AccountID string      `json:"id_account"`
}

// MarshalJSON renders prices as JSON numbers and the date in DateLayout.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(quoteJSON{
		Sell:      json.Number(q.Sell.String()),
		Buy:       json.Number(q.Buy.String()),
		Date:      q.Date.UTC().Format(DateLayout),
		AccountID: q.AccountID,
	})
}

// UnmarshalJSON parses the wire shape produced by MarshalJSON.
func (q *Quote) UnmarshalJSON(b []byte) error {
	var raw quoteJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sell, err := decimal.Parse(raw.Sell.String())
	if err != nil {
		return fmt.Errorf("sell: %w", err)
	}
	buy, err := decimal.Parse(raw.Buy.String())
	if err != nil {
		return fmt.Errorf("buy: %w", err)
	}
	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	*q = Quote{Sell: sell, Buy: buy, Date: date, AccountID: raw.AccountID}
	return nil
}
