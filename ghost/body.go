package ghost

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeBody renders a message's params as the pipe-separated
// NAME:<tag><value> body the frame header's payload_length counts (spec
// §4.4). The message type itself travels in the frame header, not the body.
func EncodeBody(params []NamedParam) []byte {
	parts := make([]string, len(params))
	for i, p := range params {
		switch p.Value.Kind {
		case ParamInt:
			parts[i] = fmt.Sprintf("%s:%c%d", p.Name, ParamInt, p.Value.Int)
		case ParamString:
			parts[i] = fmt.Sprintf("%s:%c%s", p.Name, ParamString, p.Value.Str)
		default:
			parts[i] = fmt.Sprintf("%s:?", p.Name)
		}
	}
	return []byte(strings.Join(parts, "|"))
}

// DecodeBody parses a body back into its ordered NAME:<tag><value> pairs.
// An unrecognized type tag is rejected outright (spec §4.4: "Unknown type
// tags are rejected"), as is anything shaped like a list-valued parameter —
// the source's create_param path for lists is an unfinished stub, so until a
// wire encoding exists, list parameters must be refused rather than guessed
// at (spec §9 Open Question).
func DecodeBody(body []byte) ([]NamedParam, error) {
	if len(body) == 0 {
		return nil, nil
	}
	fields := strings.Split(string(body), "|")
	out := make([]NamedParam, 0, len(fields))
	for _, f := range fields {
		name, rest, ok := strings.Cut(f, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("ghost: malformed parameter %q", f)
		}
		if rest == "" {
			return nil, fmt.Errorf("ghost: parameter %q has no type tag", f)
		}
		tag := ParamKind(rest[0])
		value := rest[1:]
		switch tag {
		case ParamInt:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("ghost: parameter %q: %w", name, err)
			}
			out = append(out, NamedParam{Name: name, Value: IntParam(n)})
		case ParamString:
			out = append(out, NamedParam{Name: name, Value: StrParam(value)})
		case '*', '[':
			return nil, fmt.Errorf("ghost: list-valued parameter %q is unsupported", name)
		default:
			return nil, fmt.Errorf("ghost: unknown type tag %q for parameter %q", rest[0], name)
		}
	}
	return out, nil
}
