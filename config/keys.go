// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package config

// Flag and config-file keys.
const (
	ConfigFileKey = "config-file"
	VersionKey    = "version"

	HTTPHostKey = "http-host"
	HTTPPortKey = "http-port"

	DBBackendKey = "db-backend"
	DBPathKey    = "db-path"

	LogLevelKey = "log-level"

	OracleEndpointKey = "oracle-endpoint"
	DevModeKey        = "dev-mode"

	GasPriceKey = "gas-price"

	OriginAddressKey    = "origin-address"
	PositionGenesisKey  = "position-genesis"
	PositionIntervalKey = "position-interval"
)
