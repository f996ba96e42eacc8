// README: Money value object returned by the toll API.
package types

// Money is a whole-unit amount; toll fees carry no minor units.
type Money struct {
	Amount   int64
	Currency string
}

func NewMoney(amount int, currency string) Money {
	return Money{Amount: int64(amount), Currency: currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}
