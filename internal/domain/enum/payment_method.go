package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod is the closed set of payment instruments accepted at the
// counter. The source system carried these as free-form strings.
type PaymentMethod int

const (
	PaymentMethodCash   PaymentMethod = 0
	PaymentMethodUPI    PaymentMethod = 1
	PaymentMethodCard   PaymentMethod = 2
	PaymentMethodCredit PaymentMethod = 3
)

func (m PaymentMethod) String() string {
	names := [...]string{"Cash", "UPI", "Card", "Credit"}
	if int(m) < 0 || int(m) >= len(names) {
		return "Cash"
	}
	return names[m]
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	switch str {
	case "Cash", "cash":
		*m = PaymentMethodCash
	case "UPI", "upi":
		*m = PaymentMethodUPI
	case "Card", "card":
		*m = PaymentMethodCard
	case "Credit", "credit":
		*m = PaymentMethodCredit
	}
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
