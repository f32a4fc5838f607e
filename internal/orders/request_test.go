package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twilio-gateway/internal/common/errors"
)

func TestDecodeOrderRequest(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        OrderRequest
		wantErr     bool
	}{
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"client_information":"Ana, Calle 5","phoneNumber":"3001234567","orderType":"jump_start"}`,
			want:        OrderRequest{ClientInformation: "Ana, Calle 5", PhoneNumber: "3001234567", OrderType: "jump_start"},
		},
		{
			name:        "json keys any case",
			contentType: "application/json; charset=utf-8",
			body:        `{"CLIENT_INFORMATION":"Ana","PhoneNumber":"300 123 4567","ordertype":"winch_out"}`,
			want:        OrderRequest{ClientInformation: "Ana", PhoneNumber: "300 123 4567", OrderType: "winch_out"},
		},
		{
			name:        "form",
			contentType: "application/x-www-form-urlencoded",
			body:        "client_information=Ana+Maria&PhoneNumber=3001234567&OrderType=tow_flat_bed&Signature=abc",
			want:        OrderRequest{ClientInformation: "Ana Maria", PhoneNumber: "3001234567", OrderType: "tow_flat_bed"},
		},
		{
			name:        "empty json body",
			contentType: "application/json",
			body:        "",
			want:        OrderRequest{},
		},
		{
			name:        "invalid phone",
			contentType: "application/json",
			body:        `{"phoneNumber":"12345"}`,
			wantErr:     true,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"orderType":`,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeOrderRequest(tt.contentType, []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}
