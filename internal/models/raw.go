package models

import (
	"database/sql/driver"
	"fmt"
)

// RawValue keeps a column value exactly as the driver returned it. The jobs
// and employment tables store skills and experience in mixed shapes (text,
// json, text[] and numeric), so decoding is left to the services layer.
type RawValue struct {
	Raw any
}

// Scan implements sql.Scanner.
func (r *RawValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		r.Raw = nil
	case []byte:
		r.Raw = string(v)
	default:
		r.Raw = v
	}
	return nil
}

// Value implements driver.Valuer.
func (r RawValue) Value() (driver.Value, error) {
	switch v := r.Raw.(type) {
	case nil:
		return nil, nil
	case string, float64, int64, bool:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// IsNull reports whether the column was NULL.
func (r RawValue) IsNull() bool {
	return r.Raw == nil
}
