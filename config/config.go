// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Tommytrg/randomness-registry/utils/logging"
)

const (
	AppName = "randreg"

	// Database backends.
	MemDB   = "memdb"
	LevelDB = "leveldb"
)

var (
	homeDir        = os.ExpandEnv("$HOME")
	defaultDataDir = filepath.Join(homeDir, "."+AppName)
	defaultDBDir   = filepath.Join(defaultDataDir, "db")

	errInvalidDBBackend  = errors.New("invalid database backend")
	errNoOracleEndpoint  = errors.New("oracle endpoint required unless dev mode is enabled")
	errNonPositiveNumber = errors.New("value must be positive")
)

// Config carries everything the node needs to start.
type Config struct {
	// If true, print the version and quit.
	DisplayVersionAndExit bool

	HTTPHost string
	HTTPPort uint16

	DBBackend string
	DBPath    string

	LogLevel logging.Level

	// Endpoint of the remote oracle's JSON-RPC API. Ignored in dev mode,
	// where an in-memory oracle that auto-resolves queries is used instead.
	OracleEndpoint string
	DevMode        bool

	// Network gas price assumed when quoting randomize fees.
	GasPrice *big.Int

	// Address instance addresses are derived from.
	OriginAddress common.Address

	// Position clock: position n covers
	// [genesis + (n-1)*interval, genesis + n*interval).
	PositionGenesis  time.Time
	PositionInterval time.Duration
}

func flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)

	fs.Bool(VersionKey, false, "If true, print version and quit")
	fs.String(ConfigFileKey, "", "Specifies a config file")

	fs.String(HTTPHostKey, "127.0.0.1", "Address the HTTP API listens on")
	fs.Uint(HTTPPortKey, 9650, "Port the HTTP API listens on")

	fs.String(DBBackendKey, LevelDB, fmt.Sprintf("Database backend. Should be one of {%s, %s}", MemDB, LevelDB))
	fs.String(DBPathKey, defaultDBDir, "Path to database directory")

	fs.String(LogLevelKey, "info", "The log level. Should be one of {debug, info, warn, error, fatal}")

	fs.String(OracleEndpointKey, "", "URI of the oracle's JSON-RPC API")
	fs.Bool(DevModeKey, false, "Run against an in-memory oracle that auto-resolves queries")

	fs.Uint64(GasPriceKey, 1, "Network gas price assumed when quoting randomize fees")

	fs.String(OriginAddressKey, "0x0000000000000000000000000000000000000001", "Address instance addresses are derived from")
	fs.Int64(PositionGenesisKey, 0, "Unix timestamp the position clock starts at. 0 means process start")
	fs.Duration(PositionIntervalKey, 15*time.Second, "Duration each ledger position covers")

	return fs
}

// getViper returns the viper environment from parsing the command line and,
// if one is named, the config file.
func getViper() (*viper.Viper, error) {
	v := viper.New()
	fs := flagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}
	if v.IsSet(ConfigFileKey) {
		v.SetConfigFile(os.ExpandEnv(v.GetString(ConfigFileKey)))
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func getConfigFromViper(v *viper.Viper) (Config, error) {
	config := Config{}
	config.DisplayVersionAndExit = v.GetBool(VersionKey)

	config.HTTPHost = v.GetString(HTTPHostKey)
	config.HTTPPort = uint16(v.GetUint(HTTPPortKey))

	config.DBBackend = v.GetString(DBBackendKey)
	switch config.DBBackend {
	case MemDB, LevelDB:
	default:
		return Config{}, fmt.Errorf("%w: %q", errInvalidDBBackend, config.DBBackend)
	}
	config.DBPath = os.ExpandEnv(v.GetString(DBPathKey))

	logLevel, err := logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return Config{}, err
	}
	config.LogLevel = logLevel

	config.OracleEndpoint = v.GetString(OracleEndpointKey)
	config.DevMode = v.GetBool(DevModeKey)
	if !config.DevMode && config.OracleEndpoint == "" {
		return Config{}, errNoOracleEndpoint
	}

	config.GasPrice = new(big.Int).SetUint64(v.GetUint64(GasPriceKey))

	config.OriginAddress = common.HexToAddress(v.GetString(OriginAddressKey))

	if genesis := v.GetInt64(PositionGenesisKey); genesis > 0 {
		config.PositionGenesis = time.Unix(genesis, 0)
	} else {
		config.PositionGenesis = time.Now()
	}
	config.PositionInterval = v.GetDuration(PositionIntervalKey)
	if config.PositionInterval <= 0 {
		return Config{}, fmt.Errorf("%w: %s %s", errNonPositiveNumber, PositionIntervalKey, config.PositionInterval)
	}

	return config, nil
}

// GetConfig parses the command line and optional config file.
func GetConfig() (Config, error) {
	v, err := getViper()
	if err != nil {
		return Config{}, err
	}
	return getConfigFromViper(v)
}
