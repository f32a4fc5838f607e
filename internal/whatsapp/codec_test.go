package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestProtoCodec_WireLayout(t *testing.T) {
	b, err := protoCodec{}.Marshal(&SendMessageRequest{
		PhoneNumber: "300",
		CountryCode: "57",
		Text:        "hi",
		Type:        MessageTypeImage,
	})
	require.NoError(t, err)

	var want []byte
	want = protowire.AppendTag(want, 1, protowire.BytesType)
	want = protowire.AppendString(want, "300")
	want = protowire.AppendTag(want, 2, protowire.BytesType)
	want = protowire.AppendString(want, "57")
	want = protowire.AppendTag(want, 3, protowire.BytesType)
	want = protowire.AppendString(want, "hi")
	want = protowire.AppendTag(want, 5, protowire.VarintType)
	want = protowire.AppendVarint(want, 1)
	assert.Equal(t, want, b)
}

func TestProtoCodec_SkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.BytesType)
	b = protowire.AppendString(b, "future field")
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(StateConnected))
	b = protowire.AppendTag(b, 10, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 42)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, "ok")
	// Wrong wire type for a known field is skipped too.
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	var resp ConnectionStatusResponse
	require.NoError(t, protoCodec{}.Unmarshal(b, &resp))
	assert.Equal(t, StateConnected, resp.State)
	assert.Equal(t, "ok", resp.Message)
	assert.Empty(t, resp.PhoneNumber)
}

func TestProtoCodec_Errors(t *testing.T) {
	_, err := protoCodec{}.Marshal("not a message")
	assert.Error(t, err)

	var s string
	assert.Error(t, protoCodec{}.Unmarshal(nil, &s))

	truncated := protowire.AppendTag(nil, 1, protowire.BytesType)
	truncated = append(truncated, 5, 'a')
	assert.Error(t, protoCodec{}.Unmarshal(truncated, &MessageStatusRequest{}))
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "DELIVERED", DeliveryDelivered.String())
	assert.Equal(t, "NOT_SERVING", NotServing.String())
	assert.Equal(t, "UNRECOGNIZED(9)", ConnectionState(9).String())

	text, err := StateConnecting.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "CONNECTING", string(text))

	state, ok := ParseConnectionState("connected")
	assert.True(t, ok)
	assert.Equal(t, StateConnected, state)
}
