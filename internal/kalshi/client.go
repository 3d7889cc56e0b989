package kalshi

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Kalshi trade API v2 endpoints
const (
	DemoBaseURL       = "https://demo-api.kalshi.co/trade-api/v2"
	ProductionBaseURL = "https://api.elections.kalshi.com/trade-api/v2"
)

type Client struct {
	apiKeyID   string
	privateKey *rsa.PrivateKey
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an authenticated Kalshi API client. The secret is the
// RSA private key in PEM form that pairs with the API key ID.
func NewClient(apiKeyID, privateKeyPEM, baseURL string) (*Client, error) {
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("error parsing Kalshi private key: %w", err)
	}

	return &Client{
		apiKeyID:   apiKeyID,
		privateKey: key,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// GetPositions fetches all market positions in the portfolio
func (c *Client) GetPositions() (*PositionsResponse, error) {
	body, err := c.doRequest(http.MethodGet, "/portfolio/positions", nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching positions: %w", err)
	}

	var positions PositionsResponse
	if err := json.Unmarshal(body, &positions); err != nil {
		return nil, fmt.Errorf("error parsing positions: %w", err)
	}

	return &positions, nil
}

// GetMarket fetches a single market by ticker
func (c *Client) GetMarket(ticker string) (*MarketResponse, error) {
	body, err := c.doRequest(http.MethodGet, "/markets/"+ticker, nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching market %s: %w", ticker, err)
	}

	var market MarketResponse
	if err := json.Unmarshal(body, &market); err != nil {
		return nil, fmt.Errorf("error parsing market %s: %w", ticker, err)
	}

	return &market, nil
}

// CreateOrder places a new order
func (c *Client) CreateOrder(req CreateOrderRequest) (*OrderResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error marshaling order request: %w", err)
	}

	body, err := c.doRequest(http.MethodPost, "/portfolio/orders", payload)
	if err != nil {
		return nil, fmt.Errorf("error placing order for %s: %w", req.Ticker, err)
	}

	var orderResp OrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, fmt.Errorf("error parsing order response: %w", err)
	}

	return &orderResp, nil
}

// doRequest builds a signed request, executes it, and returns the response
// body when the status code is 2xx.
func (c *Client) doRequest(method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	signature, err := c.sign(timestamp, method, "/trade-api/v2"+path)
	if err != nil {
		return nil, fmt.Errorf("error signing request: %w", err)
	}

	req.Header.Set("KALSHI-ACCESS-KEY", c.apiKeyID)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", signature)
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", timestamp)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// sign creates the RSA-PSS signature Kalshi requires: SHA-256 over
// timestamp + method + path, base64-encoded.
func (c *Client) sign(timestamp, method, path string) (string, error) {
	msg := timestamp + method + path
	digest := sha256.Sum256([]byte(msg))

	sig, err := rsa.SignPSS(rand.Reader, c.privateKey, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// parsePrivateKey decodes a PEM-encoded RSA private key in either PKCS#8 or
// PKCS#1 form.
func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is not RSA")
		}
		return rsaKey, nil
	}

	return x509.ParsePKCS1PrivateKey(block.Bytes)
}
