package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the closed set of property value types.
type ValueKind uint8

const (
	KindBool ValueKind = iota
	KindNumber
	KindText
)

// Value is a tagged property value. Properties hold booleans, numbers,
// or text; the tag removes the type-switching that an any-typed bag
// would force on every reader. On the wire a Value is a bare JSON
// scalar, never an object.
type Value struct {
	Kind ValueKind
	Bool bool
	Num  float64
	Text string
}

func BoolValue(v bool) Value      { return Value{Kind: KindBool, Bool: v} }
func NumberValue(v float64) Value { return Value{Kind: KindNumber, Num: v} }
func TextValue(v string) Value    { return Value{Kind: KindText, Text: v} }

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return v.Text
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Num)
	default:
		return json.Marshal(v.Text)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case bool:
		*v = BoolValue(t)
	case float64:
		*v = NumberValue(t)
	case string:
		*v = TextValue(t)
	default:
		return fmt.Errorf("unsupported property value %s", string(data))
	}
	return nil
}

// Properties is a schema's property bag. The typed accessors return
// the given default when the key is absent or holds a different kind,
// so prediction rules read beliefs without nil checks.
type Properties map[string]Value

func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Properties) Bool(key string, def bool) bool {
	if v, ok := p[key]; ok && v.Kind == KindBool {
		return v.Bool
	}
	return def
}

func (p Properties) Number(key string, def float64) float64 {
	if v, ok := p[key]; ok && v.Kind == KindNumber {
		return v.Num
	}
	return def
}

func (p Properties) Text(key string, def string) string {
	if v, ok := p[key]; ok && v.Kind == KindText {
		return v.Text
	}
	return def
}

// Clone returns an independent copy. A nil receiver clones to nil.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
