// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"flag"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Tommytrg/randomness-registry/utils/logging"
)

func testViper(t *testing.T, overrides map[string]interface{}) *viper.Viper {
	require := require.New(t)

	v := viper.New()
	fs := flagSet()
	require.NoError(fs.Parse(nil))
	fs.VisitAll(func(f *flag.Flag) {
		v.SetDefault(f.Name, f.Value.String())
	})
	for key, value := range overrides {
		v.Set(key, value)
	}
	return v
}

func TestGetConfigDefaults(t *testing.T) {
	require := require.New(t)

	v := testViper(t, map[string]interface{}{
		DevModeKey: true,
	})
	config, err := getConfigFromViper(v)
	require.NoError(err)

	require.Equal("127.0.0.1", config.HTTPHost)
	require.EqualValues(9650, config.HTTPPort)
	require.Equal(LevelDB, config.DBBackend)
	require.Equal(logging.Info, config.LogLevel)
	require.True(config.DevMode)
	require.EqualValues(1, config.GasPrice.Uint64())
	require.Equal(common.HexToAddress("0x01"), config.OriginAddress)
	require.Equal(15*time.Second, config.PositionInterval)
	require.False(config.PositionGenesis.IsZero())
}

func TestGetConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		err       error
	}{
		{
			name: "bad backend",
			overrides: map[string]interface{}{
				DevModeKey:   true,
				DBBackendKey: "rocksdb",
			},
			err: errInvalidDBBackend,
		},
		{
			name:      "missing oracle endpoint",
			overrides: map[string]interface{}{},
			err:       errNoOracleEndpoint,
		},
		{
			name: "zero interval",
			overrides: map[string]interface{}{
				DevModeKey:          true,
				PositionIntervalKey: "0s",
			},
			err: errNonPositiveNumber,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := getConfigFromViper(testViper(t, tt.overrides))
			require.ErrorIs(err, tt.err)
		})
	}
}

func TestGetConfigOracleEndpoint(t *testing.T) {
	require := require.New(t)

	v := testViper(t, map[string]interface{}{
		OracleEndpointKey: "http://127.0.0.1:9700",
		LogLevelKey:       "debug",
	})
	config, err := getConfigFromViper(v)
	require.NoError(err)
	require.Equal("http://127.0.0.1:9700", config.OracleEndpoint)
	require.Equal(logging.Debug, config.LogLevel)
	require.False(config.DevMode)
}
