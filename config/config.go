// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads the settlement node configuration from a JSON file,
// environment variables and command line flags.
package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents"
)

const (
	defaultLogLevel    = "info"
	defaultMetricsPort = 9090
)

// Config is the top-level settlement node configuration.
type Config struct {
	LogLevel     string `mapstructure:"log-level" json:"log-level"`
	ChainID      string `mapstructure:"chain-id" json:"chain-id"`
	AdminAddress string `mapstructure:"admin-address" json:"admin-address"`
	Custody      string `mapstructure:"custody-address" json:"custody-address"`
	MetricsPort  uint16 `mapstructure:"metrics-port" json:"metrics-port"`

	chainID ids.ID
	admin   intents.Address
	custody intents.Address
}

// Validate checks the configuration and caches the parsed forms of the
// string-typed fields.
func (c *Config) Validate() error {
	if c.ChainID == "" {
		return fmt.Errorf("%q is required", ChainIDKey)
	}
	chainID, err := ids.FromString(c.ChainID)
	if err != nil {
		return fmt.Errorf("invalid %q: %w", ChainIDKey, err)
	}
	c.chainID = chainID

	c.admin, err = parseAddress(c.AdminAddress, AdminAddressKey)
	if err != nil {
		return err
	}
	c.custody, err = parseAddress(c.Custody, CustodyKey)
	if err != nil {
		return err
	}
	if c.custody.IsZero() {
		return fmt.Errorf("%q is required", CustodyKey)
	}
	return nil
}

// GetChainID returns the parsed chain id. Validate must have succeeded.
func (c *Config) GetChainID() ids.ID {
	return c.chainID
}

// GetAdminAddress returns the parsed admin address.
func (c *Config) GetAdminAddress() intents.Address {
	return c.admin
}

// GetCustodyAddress returns the parsed custody address.
func (c *Config) GetCustodyAddress() intents.Address {
	return c.custody
}

func parseAddress(s, key string) (intents.Address, error) {
	if s == "" {
		return intents.ZeroAddress, nil
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return intents.ZeroAddress, fmt.Errorf("invalid %q: %w", key, err)
	}
	addr, err := intents.AddressFromBytes(raw)
	if err != nil {
		return intents.ZeroAddress, fmt.Errorf("invalid %q: %w", key, err)
	}
	return addr, nil
}
