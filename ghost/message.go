// Package ghost implements the wire codec for Ghost protocol messages:
// pipe-delimited ASCII framing around a binary (and, once a session key
// exists, encrypted) body of typed NAME:value parameters (spec §4.4).
package ghost

import "fmt"

// ParamKind is the single-character type tag prefixed to a parameter value.
type ParamKind byte

const (
	ParamInt    ParamKind = '+'
	ParamString ParamKind = '^'
)

// Param is one typed value in a message body. Exactly one of Int/Str is
// meaningful, selected by Kind.
type Param struct {
	Kind ParamKind
	Int  int64
	Str  string
}

func IntParam(v int64) Param  { return Param{Kind: ParamInt, Int: v} }
func StrParam(v string) Param { return Param{Kind: ParamString, Str: v} }

// NamedParam is one NAME:<tag><value> pair. Params are carried as an ordered
// list, not a map, so wire encoding is reproducible byte-for-byte.
type NamedParam struct {
	Name  string
	Value Param
}

// Message is a decoded Ghost frame: a message type and its ordered
// parameters.
type Message struct {
	Type   string
	Params []NamedParam
}

// Get returns the first parameter with the given name.
func (m Message) Get(name string) (Param, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Param{}, false
}

// GetString returns the named string parameter.
func (m Message) GetString(name string) (string, error) {
	p, ok := m.Get(name)
	if !ok {
		return "", fmt.Errorf("ghost: missing parameter %q", name)
	}
	if p.Kind != ParamString {
		return "", fmt.Errorf("ghost: parameter %q is not a string", name)
	}
	return p.Str, nil
}

// GetInt returns the named integer parameter.
func (m Message) GetInt(name string) (int64, error) {
	p, ok := m.Get(name)
	if !ok {
		return 0, fmt.Errorf("ghost: missing parameter %q", name)
	}
	if p.Kind != ParamInt {
		return 0, fmt.Errorf("ghost: parameter %q is not an integer", name)
	}
	return p.Int, nil
}

func New(msgType string, params ...NamedParam) Message {
	return Message{Type: msgType, Params: params}
}
