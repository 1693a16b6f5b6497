package domain

import "encoding/json"

// OptionalFloat is a float64 that distinguishes "never entered" from a logged
// zero. The invalid state serializes as JSON null.
type OptionalFloat struct {
	Valid bool    `bson:"valid"`
	Value float64 `bson:"value"`
}

// Float returns a valid OptionalFloat holding v.
func Float(v float64) OptionalFloat {
	return OptionalFloat{Valid: true, Value: v}
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalFloat{}
		return nil
	}
	o.Valid = true
	return json.Unmarshal(data, &o.Value)
}

// OptionalInt is the integer counterpart of OptionalFloat.
type OptionalInt struct {
	Valid bool `bson:"valid"`
	Value int  `bson:"value"`
}

// Int returns a valid OptionalInt holding v.
func Int(v int) OptionalInt {
	return OptionalInt{Valid: true, Value: v}
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalInt{}
		return nil
	}
	o.Valid = true
	return json.Unmarshal(data, &o.Value)
}
