package template

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// object is a JSON object that keeps key order.
type object []Entry

func orderedObject(entries []Entry) object { return object(entries) }

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshal(e.Value.JSON())
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type scoreRef struct {
	Name      string `json:"name"`
	Objective string `json:"objective"`
}

type scoreText struct {
	Score scoreRef `json:"score"`
}

func scoreComponent(r Ref) scoreText {
	return scoreText{Score: scoreRef{Name: r.Code, Objective: r.Bank}}
}

// text is a plain text component.
type text struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// marshal encodes v on one line without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// component renders a value as a chat component: strings and dicts are
// text components, names are score components.
func component(v Value) (any, error) {
	switch v.Kind {
	case KindString:
		return text{Text: v.Str}, nil
	case KindDict:
		if _, ok := v.Lookup("text"); !ok {
			return nil, errorf(badArgument, "text component %s has no \"text\" key", v)
		}
		return orderedObject(v.Dict), nil
	case KindName:
		return scoreComponent(v.Ref), nil
	case KindInt, KindBool:
		return text{Text: v.String()}, nil
	}
	return nil, fmt.Errorf("no component for %s", v.Kind)
}
