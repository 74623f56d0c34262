package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus is the lifecycle state of a committed sale. Whether the record
// still sits in the offline queue is tracked separately by the synced flag.
type SaleStatus int

const (
	SaleStatusCompleted SaleStatus = 0
	SaleStatusCancelled SaleStatus = 1
)

func (s SaleStatus) String() string {
	names := [...]string{"Completed", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Completed"
	}
	return names[s]
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	switch str {
	case "Completed", "completed":
		*s = SaleStatusCompleted
	case "Cancelled", "cancelled":
		*s = SaleStatusCancelled
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusCompleted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
