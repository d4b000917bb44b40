package models

import "encoding/json"

// NullableString tells an absent JSON field apart from an explicit null:
//   - absent:         Set=false, Valid=false
//   - null:           Set=true,  Valid=false
//   - "value":        Set=true,  Valid=true, Value="value"
//
// A plain *string cannot, since encoding/json leaves it nil in both of the
// first two cases.
type NullableString struct {
	Value string
	Valid bool
	Set   bool
}

func (ns *NullableString) UnmarshalJSON(data []byte) error {
	ns.Set = true

	if string(data) == "null" {
		ns.Valid = false
		ns.Value = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ns.Value = s
	ns.Valid = true
	return nil
}

func (ns NullableString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.Value)
}

// ToPtr returns nil for null or absent values
func (ns NullableString) ToPtr() *string {
	if !ns.Valid {
		return nil
	}
	return &ns.Value
}
