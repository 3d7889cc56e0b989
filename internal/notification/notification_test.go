package notification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type recordingNotifier struct {
	name     string
	enabled  bool
	received []*Notification
	err      error
}

func (r *recordingNotifier) Send(n *Notification) error {
	r.received = append(r.received, n)
	return r.err
}

func (r *recordingNotifier) Name() string    { return r.name }
func (r *recordingNotifier) IsEnabled() bool { return r.enabled }

func TestManagerFansOutToEnabledNotifiers(t *testing.T) {
	enabled := &recordingNotifier{name: "a", enabled: true}
	disabled := &recordingNotifier{name: "b", enabled: false}

	manager := NewManager()
	manager.AddNotifier(enabled)
	manager.AddNotifier(disabled)

	if err := manager.SendHedgeFailed("TEST-MKT", "order rejected"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if len(enabled.received) != 1 {
		t.Errorf("enabled notifier received %d notifications, want 1", len(enabled.received))
	}
	if len(disabled.received) != 0 {
		t.Errorf("disabled notifier received %d notifications, want 0", len(disabled.received))
	}

	got := enabled.received[0]
	if got.Type != NotifyHedgeFailed || got.Ticker != "TEST-MKT" {
		t.Errorf("notification = %+v", got)
	}
	if !strings.Contains(got.Message, "order rejected") {
		t.Errorf("message %q missing reason", got.Message)
	}
}

func TestManagerReportsLastError(t *testing.T) {
	failing := &recordingNotifier{name: "a", enabled: true, err: errors.New("webhook 500")}
	working := &recordingNotifier{name: "b", enabled: true}

	manager := NewManager()
	manager.AddNotifier(failing)
	manager.AddNotifier(working)

	err := manager.SendError("Status update failed", "details")
	if err == nil {
		t.Fatal("Send hid the provider error")
	}
	// The working provider still got the notification
	if len(working.received) != 1 {
		t.Errorf("working notifier received %d, want 1", len(working.received))
	}
}

func TestSendHedgeExecutedMessage(t *testing.T) {
	rec := &recordingNotifier{name: "rec", enabled: true}
	manager := NewManager()
	manager.AddNotifier(rec)

	err := manager.SendHedgeExecuted("TEST-MKT", 66, 34,
		decimal.NewFromFloat(0.75), decimal.NewFromFloat(49.50), decimal.NewFromFloat(0.50))
	if err != nil {
		t.Fatalf("SendHedgeExecuted returned error: %v", err)
	}

	msg := rec.received[0].Message
	for _, want := range []string{"66", "$0.75", "$49.50", "34", "50.0%"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestDiscordNotifierPostsEmbed(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(DiscordConfig{WebhookURL: server.URL, Enabled: true})

	err := notifier.Send(&Notification{
		Type:    NotifyHedgeExecuted,
		Title:   "🟢 Hedge Executed: TEST-MKT",
		Message: "Sold 66 contracts",
		Ticker:  "TEST-MKT",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if payload["username"] != "Kalshi Hedge Bot" {
		t.Errorf("username = %v", payload["username"])
	}
	embeds, ok := payload["embeds"].([]interface{})
	if !ok || len(embeds) != 1 {
		t.Fatalf("embeds = %v", payload["embeds"])
	}
	embed := embeds[0].(map[string]interface{})
	if embed["title"] != "🟢 Hedge Executed: TEST-MKT" {
		t.Errorf("embed title = %v", embed["title"])
	}
}

func TestDiscordNotifierRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(DiscordConfig{WebhookURL: server.URL, Enabled: true})

	if err := notifier.Send(&Notification{Title: "t", Message: "m"}); err == nil {
		t.Fatal("Send accepted a 429 response")
	}
}

func TestDisabledNotifiersAreNoOps(t *testing.T) {
	discord := NewDiscordNotifier(DiscordConfig{Enabled: true}) // no webhook URL
	if discord.IsEnabled() {
		t.Error("discord notifier enabled without a webhook URL")
	}
	if err := discord.Send(&Notification{}); err != nil {
		t.Errorf("disabled discord notifier returned error: %v", err)
	}

	telegram := NewTelegramNotifier(TelegramConfig{Enabled: true, BotToken: "x"}) // no chat ID
	if telegram.IsEnabled() {
		t.Error("telegram notifier enabled without a chat ID")
	}
}
