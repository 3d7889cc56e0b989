package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"

	"kalshi-hedge-bot/config"
)

// Credentials represents the Kalshi API credentials stored in Vault
type Credentials struct {
	APIKeyID      string `json:"api_key_id"`
	PrivateKeyPEM string `json:"private_key_pem"`
}

// Client wraps the HashiCorp Vault client for credential retrieval
type Client struct {
	client *api.Client
	config config.VaultConfig
}

// NewClient creates a new Vault client. When Vault is disabled the client is
// inert and GetCredentials returns an error, letting the caller fall back to
// plain config.
func NewClient(cfg config.VaultConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{config: cfg}, nil
	}

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSEnabled && cfg.CACert != "" {
		tlsConfig := &api.TLSConfig{
			CACert: cfg.CACert,
		}
		if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	return &Client{client: client, config: cfg}, nil
}

// Enabled reports whether Vault-backed credential retrieval is active
func (c *Client) Enabled() bool {
	return c.config.Enabled
}

// GetCredentials retrieves the Kalshi API credentials from the configured
// KV v2 secret path
func (c *Client) GetCredentials(ctx context.Context) (*Credentials, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("vault is disabled")
	}

	secret, err := c.client.Logical().ReadWithContext(ctx, c.config.SecretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials from vault: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("credentials not found at %s", c.config.SecretPath)
	}

	// KV v2 wraps the payload in a "data" map
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret format at %s", c.config.SecretPath)
	}

	creds := &Credentials{
		APIKeyID:      getString(data, "api_key_id"),
		PrivateKeyPEM: getString(data, "private_key_pem"),
	}

	if creds.APIKeyID == "" || creds.PrivateKeyPEM == "" {
		return nil, fmt.Errorf("incomplete credentials at %s", c.config.SecretPath)
	}

	return creds, nil
}

func getString(data map[string]interface{}, key string) string {
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}
