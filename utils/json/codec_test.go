// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"randreg.randomize", "randreg.Randomize"},
		{"randreg.Randomize", "randreg.Randomize"},
		{"randreg.getRandomnessAfter", "randreg.GetRandomnessAfter"},
		{"noservice", "noservice"},
		{"randreg.", "randreg."},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			require := require.New(t)

			body := fmt.Sprintf(`{"jsonrpc":"2.0","method":%q,"params":[{}],"id":1}`, tt.method)
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

			got, err := NewCodec().NewRequest(request).Method()
			require.NoError(err)
			require.Equal(tt.want, got)
		})
	}
}
