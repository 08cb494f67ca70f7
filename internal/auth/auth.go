package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName = "desksort"
	account     = "openai-api-key"
	// EnvVar is the environment fallback when the keychain holds no key.
	EnvVar = "OPENAI_API_KEY"

	SourceKeychain = "Keychain"
	SourceEnv      = "Environment Variable"
)

// GetKey retrieves the classification API key, keychain first.
// If allowEnv is false, environment variables are ignored.
// The second return value names where the key came from.
func GetKey(allowEnv bool) (string, string) {
	key, err := keyring.Get(serviceName, account)
	if err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), SourceKeychain
	}
	if allowEnv {
		if key, ok := GetEnvKey(); ok {
			return key, SourceEnv
		}
	}
	return "", ""
}

// SaveKey saves the key to the OS keychain.
func SaveKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key is empty")
	}
	return keyring.Set(serviceName, account, key)
}

// DeleteKey removes the key from the OS keychain.
func DeleteKey() error {
	return keyring.Delete(serviceName, account)
}

// GetStatus reports whether the keychain holds a key.
func GetStatus() bool {
	key, err := keyring.Get(serviceName, account)
	return err == nil && key != ""
}

// PromptForAPIKey reads a key from the terminal without echo.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// GetEnvKey retrieves the key from the environment only.
func GetEnvKey() (string, bool) {
	key := strings.TrimSpace(os.Getenv(EnvVar))
	if key == "" {
		return "", false
	}
	return key, true
}
