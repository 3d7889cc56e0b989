package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	NotifyHedgeExecuted NotificationType = "hedge_executed"
	NotifyHedgeFailed   NotificationType = "hedge_failed"
	NotifyError         NotificationType = "error"
	NotifyInfo          NotificationType = "info"
)

// Notification represents a notification message
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Ticker    string
	Timestamp time.Time
}

// Notifier interface for different notification providers
type Notifier interface {
	Send(notification *Notification) error
	Name() string
	IsEnabled() bool
}

// Manager fans a notification out to all configured providers. Send failures
// are returned for logging only; they never escalate further.
type Manager struct {
	notifiers []Notifier
	enabled   bool
}

// NewManager creates a new notification manager
func NewManager() *Manager {
	return &Manager{
		notifiers: make([]Notifier, 0),
		enabled:   true,
	}
}

// AddNotifier adds a notification provider
func (m *Manager) AddNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Send sends a notification to all enabled providers
func (m *Manager) Send(notification *Notification) error {
	if !m.enabled {
		return nil
	}

	var lastErr error
	for _, n := range m.notifiers {
		if n.IsEnabled() {
			if err := n.Send(notification); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

// SendHedgeExecuted sends a successful hedge summary
func (m *Manager) SendHedgeExecuted(ticker string, sold, remaining int64, price, recovered, percentGain decimal.Decimal) error {
	gainPct := percentGain.Mul(decimal.NewFromInt(100))

	return m.Send(&Notification{
		Type:  NotifyHedgeExecuted,
		Title: fmt.Sprintf("🟢 Hedge Executed: %s", ticker),
		Message: fmt.Sprintf(
			"Sold %d contracts at $%s\nCapital recovered: $%s\nRemaining %d contracts are free profit\nGain: %s%%",
			sold, price.StringFixed(2), recovered.StringFixed(2), remaining, gainPct.StringFixed(1)),
		Ticker:    ticker,
		Timestamp: time.Now(),
	})
}

// SendHedgeFailed sends a failed hedge alert. The position's capital is still
// at risk, so this goes out even when the failure was already logged.
func (m *Manager) SendHedgeFailed(ticker, reason string) error {
	return m.Send(&Notification{
		Type:      NotifyHedgeFailed,
		Title:     fmt.Sprintf("⚠️ Hedge Failed: %s", ticker),
		Message:   reason,
		Ticker:    ticker,
		Timestamp: time.Now(),
	})
}

// SendError sends an error notification
func (m *Manager) SendError(title, message string) error {
	return m.Send(&Notification{
		Type:      NotifyError,
		Title:     fmt.Sprintf("🚨 %s", title),
		Message:   message,
		Timestamp: time.Now(),
	})
}

// =============================================================================
// DISCORD NOTIFIER
// =============================================================================

// DiscordNotifier sends notifications via Discord webhook
type DiscordNotifier struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// DiscordConfig holds Discord configuration
type DiscordConfig struct {
	WebhookURL string
	Enabled    bool
}

// NewDiscordNotifier creates a new Discord notifier
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: config.WebhookURL,
		enabled:    config.Enabled && config.WebhookURL != "",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DiscordNotifier) Name() string {
	return "discord"
}

func (d *DiscordNotifier) IsEnabled() bool {
	return d.enabled
}

func (d *DiscordNotifier) Send(notification *Notification) error {
	if !d.enabled {
		return nil
	}

	color := 0x00FF00 // Green
	if notification.Type == NotifyError || notification.Type == NotifyHedgeFailed {
		color = 0xFF0000 // Red
	}

	embed := map[string]interface{}{
		"title":       notification.Title,
		"description": notification.Message,
		"color":       color,
		"timestamp":   notification.Timestamp.Format(time.RFC3339),
	}

	if notification.Ticker != "" {
		embed["fields"] = []map[string]interface{}{
			{"name": "Ticker", "value": notification.Ticker, "inline": true},
		}
	}

	payload := map[string]interface{}{
		"username": "Kalshi Hedge Bot",
		"embeds":   []map[string]interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord API returned status %d", resp.StatusCode)
	}

	return nil
}

// =============================================================================
// TELEGRAM NOTIFIER
// =============================================================================

// TelegramNotifier sends notifications via Telegram
type TelegramNotifier struct {
	botToken string
	chatID   string
	enabled  bool
	client   *http.Client
}

// TelegramConfig holds Telegram configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
	Enabled  bool
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(config TelegramConfig) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: config.BotToken,
		chatID:   config.ChatID,
		enabled:  config.Enabled && config.BotToken != "" && config.ChatID != "",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramNotifier) Name() string {
	return "telegram"
}

func (t *TelegramNotifier) IsEnabled() bool {
	return t.enabled
}

func (t *TelegramNotifier) Send(notification *Notification) error {
	if !t.enabled {
		return nil
	}

	message := fmt.Sprintf("*%s*\n\n%s", notification.Title, notification.Message)

	payload := map[string]interface{}{
		"chat_id":    t.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	resp, err := t.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}
