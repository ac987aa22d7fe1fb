package signature

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/ChainSafe/gossamer/lib/crypto/sr25519"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"

	"github.com/vigil-labs/vigil/pkg/config"
)

// LoadMnemonic reads the secret phrase out of a bittensor wallet key file.
func LoadMnemonic(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return "", fmt.Errorf("failed to get current user: %w", err)
		}
		path = filepath.Join(usr.HomeDir, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to read keypair file")
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	var parsed map[string]any
	if err := sonic.Unmarshal(data, &parsed); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to parse keypair JSON")
		return "", fmt.Errorf("failed to parse JSON: %w", err)
	}

	phrase, ok := parsed["secretPhrase"].(string)
	if !ok || phrase == "" {
		return "", fmt.Errorf("secretPhrase not found in %s", path)
	}

	return phrase, nil
}

// LoadKeypairFromHotkey derives an sr25519 keypair from the wallet hotkey
// file under the bittensor wallets directory.
func LoadKeypairFromHotkey(coldkeyName, hotkeyName string) (*sr25519.Keypair, error) {
	ctx := context.Background()
	var envCfg config.WalletEnvConfig
	if err := envconfig.Process(ctx, &envCfg); err != nil {
		return nil, fmt.Errorf("failed to process wallet environment: %w", err)
	}

	bittensorDir := envCfg.BittensorDir
	if bittensorDir == "" {
		bittensorDir = DefaultBittensorDir
	}

	path := bittensorDir + "/wallets/" + coldkeyName + "/hotkeys/" + hotkeyName
	log.Debug().Str("path", path).Msg("Loading keypair from hotkey path")

	mnemonic, err := LoadMnemonic(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed phrase: %w", err)
	}

	keypair, err := sr25519.NewKeypairFromMnenomic(mnemonic, "")
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to create keypair from seed phrase")
		return nil, fmt.Errorf("failed to create keypair from seed phrase: %w", err)
	}

	return keypair, nil
}
