// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/luxfi/ids"
	"github.com/spf13/cobra"

	"github.com/luxfi/intents"
	"github.com/luxfi/intents/config"
	"github.com/luxfi/intents/payload"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "intentcli",
	Short: "Cross-chain intent settlement CLI",
	Long: `intentcli provides tools for encoding, decoding and signing the wire
messages exchanged between intent settlement chains.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	rootCmd.AddCommand(peekCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String(config.ConfigFileKey, "", "Path to the JSON configuration file")

	encodeCmd.Flags().String("intent", "", "Intent id (hex)")
	encodeCmd.Flags().String("requester", "", "Requester address (hex)")
	encodeCmd.Flags().String("token", "", "Token address (hex)")
	encodeCmd.Flags().String("solver", "", "Solver address (hex), empty for any solver")
	encodeCmd.Flags().Uint64("amount", 0, "Required amount")
	encodeCmd.Flags().Uint64("expiry", 0, "Expiry (unix seconds, defaults to one hour from now)")

	signCmd.Flags().String("key", "", "Hex-encoded ed25519 private key")
	signCmd.Flags().String("message", "", "Hex-encoded message to sign")
}

var peekCmd = &cobra.Command{
	Use:   "peek [hex]",
	Short: "Print the message type of an encoded payload",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := hex.DecodeString(args[0])
		if err != nil {
			fatalf("Invalid payload hex: %v\n", err)
		}
		typ, err := payload.PeekType(raw)
		if err != nil {
			fatalf("Failed to peek: %v\n", err)
		}
		fmt.Printf("Type: %s (0x%02x)\n", typ, uint8(typ))
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode [hex]",
	Short: "Decode an encoded wire message",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := hex.DecodeString(args[0])
		if err != nil {
			fatalf("Invalid payload hex: %v\n", err)
		}
		msg, err := payload.Parse(raw)
		if err != nil {
			fatalf("Failed to parse: %v\n", err)
		}
		switch m := msg.(type) {
		case *payload.IntentRequirements:
			fmt.Printf("IntentRequirements:\n")
			fmt.Printf("  Intent: %s\n", m.IntentID)
			fmt.Printf("  Requester: %s\n", m.Requester)
			fmt.Printf("  Amount: %d\n", m.AmountRequired)
			fmt.Printf("  Token: %s\n", m.Token)
			if m.AnySolver() {
				fmt.Printf("  Solver: any\n")
			} else {
				fmt.Printf("  Solver: %s\n", m.Solver)
			}
			fmt.Printf("  Expiry: %d\n", m.Expiry)
		case *payload.EscrowConfirmation:
			fmt.Printf("EscrowConfirmation:\n")
			fmt.Printf("  Intent: %s\n", m.IntentID)
			fmt.Printf("  Escrow: %s\n", m.EscrowID)
			fmt.Printf("  Amount: %d\n", m.AmountEscrowed)
			fmt.Printf("  Token: %s\n", m.Token)
			fmt.Printf("  Creator: %s\n", m.Creator)
		case *payload.FulfillmentProof:
			fmt.Printf("FulfillmentProof:\n")
			fmt.Printf("  Intent: %s\n", m.IntentID)
			fmt.Printf("  Solver: %s\n", m.Solver)
			fmt.Printf("  Amount: %d\n", m.AmountFulfilled)
			fmt.Printf("  Timestamp: %d\n", m.Timestamp)
		}
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode an IntentRequirements message",
	Run: func(cmd *cobra.Command, args []string) {
		intentHex, _ := cmd.Flags().GetString("intent")
		requesterHex, _ := cmd.Flags().GetString("requester")
		tokenHex, _ := cmd.Flags().GetString("token")
		solverHex, _ := cmd.Flags().GetString("solver")
		amount, _ := cmd.Flags().GetUint64("amount")
		expiry, _ := cmd.Flags().GetUint64("expiry")

		intentID, err := hexToID(intentHex)
		if err != nil {
			fatalf("Invalid intent id: %v\n", err)
		}
		requester, err := hexToAddress(requesterHex)
		if err != nil {
			fatalf("Invalid requester: %v\n", err)
		}
		token, err := hexToAddress(tokenHex)
		if err != nil {
			fatalf("Invalid token: %v\n", err)
		}
		solver := intents.ZeroAddress
		if solverHex != "" {
			if solver, err = hexToAddress(solverHex); err != nil {
				fatalf("Invalid solver: %v\n", err)
			}
		}
		if expiry == 0 {
			expiry = intents.SystemClock() + 3600
		}

		req := &payload.IntentRequirements{
			IntentID:       intentID,
			Requester:      requester,
			AmountRequired: amount,
			Token:          token,
			Solver:         solver,
			Expiry:         expiry,
		}
		fmt.Printf("%x\n", req.Bytes())
	},
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an ed25519 keypair for solver reservations",
	Run: func(cmd *cobra.Command, args []string) {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			fatalf("Failed to generate key: %v\n", err)
		}
		fmt.Printf("Private key: %x\n", priv)
		fmt.Printf("Public key:  %x\n", pub)
	},
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message with an ed25519 private key",
	Long: `Sign arbitrary bytes, typically encoded reservation terms or a raw
intent id for an approval.`,
	Run: func(cmd *cobra.Command, args []string) {
		keyHex, _ := cmd.Flags().GetString("key")
		messageHex, _ := cmd.Flags().GetString("message")

		keyBytes, err := hex.DecodeString(keyHex)
		if err != nil {
			fatalf("Invalid key hex: %v\n", err)
		}
		if len(keyBytes) != ed25519.PrivateKeySize {
			fatalf("Private key must be %d bytes\n", ed25519.PrivateKeySize)
		}
		message, err := hex.DecodeString(messageHex)
		if err != nil {
			fatalf("Invalid message hex: %v\n", err)
		}

		sig := ed25519.Sign(ed25519.PrivateKey(keyBytes), message)
		fmt.Printf("Signature: %x\n", sig)
	},
}

func hexToID(s string) (ids.ID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ids.Empty, err
	}
	if len(raw) != len(ids.Empty) {
		return ids.Empty, fmt.Errorf("id must be %d bytes, got %d", len(ids.Empty), len(raw))
	}
	var id ids.ID
	copy(id[:], raw)
	return id, nil
}

func hexToAddress(s string) (intents.Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return intents.ZeroAddress, err
	}
	return intents.AddressFromBytes(raw)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
