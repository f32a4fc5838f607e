package whatsapp

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireMessage is implemented by every request and response type. Messages
// encode themselves in protobuf wire format so the client speaks to any
// gRPC or Connect server that implements the messaging contract.
type wireMessage interface {
	appendWire(b []byte) []byte
	unmarshalWire(b []byte) error
}

// protoCodec replaces connect's default "proto" codec for wireMessage types.
type protoCodec struct{}

func (protoCodec) Name() string { return "proto" }

func (protoCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("whatsapp codec: cannot marshal %T", v)
	}
	return m.appendWire(nil), nil
}

func (protoCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("whatsapp codec: cannot unmarshal into %T", v)
	}
	return m.unmarshalWire(data)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

// fieldFunc consumes the value of one field and returns the bytes read, or
// skipField for fields the message does not know.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) int

const skipField = 0

func consumeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n = fn(num, typ, b)
		if n == skipField {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return skipField
	}
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeVarint(typ protowire.Type, b []byte, set func(uint64)) int {
	if typ != protowire.VarintType {
		return skipField
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		set(v)
	}
	return n
}

func consumeBool(typ protowire.Type, b []byte, dst *bool) int {
	return consumeVarint(typ, b, func(v uint64) { *dst = protowire.DecodeBool(v) })
}

func consumeInt64(typ protowire.Type, b []byte, dst *int64) int {
	return consumeVarint(typ, b, func(v uint64) { *dst = int64(v) })
}

func consumeEnum(typ protowire.Type, b []byte, dst *int32) int {
	return consumeVarint(typ, b, func(v uint64) { *dst = int32(v) })
}
