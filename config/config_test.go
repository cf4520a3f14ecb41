// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/hex"
	"testing"

	"github.com/luxfi/ids"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestBuildConfigDefaults(t *testing.T) {
	require := require.New(t)

	v := viper.New()
	v.Set(ChainIDKey, ids.GenerateTestID().String())
	v.Set(CustodyKey, "0x"+hex.EncodeToString(make([]byte, 31))+"01")

	cfg, err := BuildConfig(v)
	require.NoError(err)
	require.Equal(defaultLogLevel, cfg.LogLevel)
	require.Equal(uint16(defaultMetricsPort), cfg.MetricsPort)
}

func TestConfigValidate(t *testing.T) {
	require := require.New(t)

	chainID := ids.GenerateTestID()
	custody := "0x" + hex.EncodeToString(make([]byte, 31)) + "02"

	cfg := Config{ChainID: chainID.String(), Custody: custody}
	require.NoError(cfg.Validate())
	require.Equal(chainID, cfg.GetChainID())
	require.False(cfg.GetCustodyAddress().IsZero())
	require.True(cfg.GetAdminAddress().IsZero())

	// EVM-length addresses are accepted and left-padded.
	short := Config{ChainID: chainID.String(), Custody: hex.EncodeToString(make([]byte, 19)) + "03"}
	require.NoError(short.Validate())
	require.False(short.GetCustodyAddress().IsZero())
}

func TestConfigValidateErrors(t *testing.T) {
	require := require.New(t)

	custody := hex.EncodeToString(make([]byte, 31)) + "01"

	require.Error((&Config{Custody: custody}).Validate())
	require.Error((&Config{ChainID: "not an id", Custody: custody}).Validate())
	require.Error((&Config{ChainID: ids.GenerateTestID().String()}).Validate())
	require.Error((&Config{
		ChainID: ids.GenerateTestID().String(),
		Custody: "zz" + custody[2:],
	}).Validate())
	require.Error((&Config{
		ChainID:      ids.GenerateTestID().String(),
		Custody:      custody,
		AdminAddress: hex.EncodeToString(make([]byte, 40)),
	}).Validate())
}
