// Package config holds environment structs shared by reusable pkg modules.
package config

// WalletEnvConfig holds wallet key configuration for substrate keypairs.
type WalletEnvConfig struct {
	WalletHotkey  string `env:"WALLET_HOTKEY"`
	WalletColdkey string `env:"WALLET_COLDKEY"`
	BittensorDir  string `env:"BITTENSOR_DIR, default=~/.bittensor"`
}
