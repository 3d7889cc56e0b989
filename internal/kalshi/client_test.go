package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testPrivateKeyPEM(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}

	pemData := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	return string(pemData), key
}

func TestNewClientRejectsBadKey(t *testing.T) {
	if _, err := NewClient("key-id", "not a pem key", DemoBaseURL); err == nil {
		t.Fatal("NewClient accepted a malformed private key")
	}
}

func TestNewClientParsesPKCS8(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal PKCS8: %v", err)
	}
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	if _, err := NewClient("key-id", string(pemData), DemoBaseURL); err != nil {
		t.Fatalf("NewClient rejected a PKCS8 key: %v", err)
	}
}

func TestGetMarketSignsRequest(t *testing.T) {
	pemKey, key := testPrivateKeyPEM(t)

	var gotPath, gotKeyHeader, gotTimestamp, gotSignature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKeyHeader = r.Header.Get("KALSHI-ACCESS-KEY")
		gotTimestamp = r.Header.Get("KALSHI-ACCESS-TIMESTAMP")
		gotSignature = r.Header.Get("KALSHI-ACCESS-SIGNATURE")

		json.NewEncoder(w).Encode(MarketResponse{
			Market: Market{Ticker: "TEST-MKT", YesBid: 75},
		})
	}))
	defer server.Close()

	client, err := NewClient("key-id-1", pemKey, server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	resp, err := client.GetMarket("TEST-MKT")
	if err != nil {
		t.Fatalf("GetMarket returned error: %v", err)
	}
	if resp.Market.YesBid != 75 {
		t.Errorf("YesBid = %d, want 75", resp.Market.YesBid)
	}

	if gotPath != "/markets/TEST-MKT" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKeyHeader != "key-id-1" {
		t.Errorf("KALSHI-ACCESS-KEY = %q", gotKeyHeader)
	}
	if gotTimestamp == "" {
		t.Error("KALSHI-ACCESS-TIMESTAMP missing")
	}

	// Verify the signature is RSA-PSS over timestamp + method + API path
	sig, err := base64.StdEncoding.DecodeString(gotSignature)
	if err != nil {
		t.Fatalf("signature is not base64: %v", err)
	}
	msg := gotTimestamp + "GET" + "/trade-api/v2/markets/TEST-MKT"
	digest := sha256.Sum256([]byte(msg))
	if err := rsa.VerifyPSS(&key.PublicKey, crypto.SHA256, digest[:], sig, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	}); err != nil {
		t.Errorf("signature verification failed: %v", err)
	}
}

func TestCreateOrderSendsPayload(t *testing.T) {
	pemKey, _ := testPrivateKeyPEM(t)

	var gotOrder CreateOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotOrder); err != nil {
			t.Errorf("failed to decode order payload: %v", err)
		}
		json.NewEncoder(w).Encode(OrderResponse{
			Order: Order{OrderID: "ord-1", ClientOrderID: gotOrder.ClientOrderID, Status: "resting"},
		})
	}))
	defer server.Close()

	client, err := NewClient("key-id-1", pemKey, server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	resp, err := client.CreateOrder(CreateOrderRequest{
		Ticker:        "TEST-MKT",
		ClientOrderID: "hedge_TEST-MKT_1_abc",
		Side:          "sell",
		Action:        "sell",
		Count:         66,
		Type:          "limit",
		YesPrice:      75,
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if resp.Order.OrderID != "ord-1" {
		t.Errorf("OrderID = %q, want ord-1", resp.Order.OrderID)
	}
	if gotOrder.Count != 66 || gotOrder.YesPrice != 75 || gotOrder.Side != "sell" {
		t.Errorf("server received %+v", gotOrder)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	pemKey, _ := testPrivateKeyPEM(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"insufficient_balance"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClient("key-id-1", pemKey, server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := client.GetPositions(); err == nil {
		t.Fatal("GetPositions swallowed the API error")
	}
}
