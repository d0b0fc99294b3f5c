package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trongate/trongate/internal/config"
)

// Sender is the chat transport the dispatcher depends on. One message, one
// HTTP call, no retries.
type Sender interface {
	SendMessage(ctx context.Context, botToken, chatID, text string) error
}

// BotClient sends messages through the Telegram Bot API.
type BotClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Sender = (*BotClient)(nil)

func NewBotClient(cfg config.TelegramConfig) *BotClient {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BotClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *BotClient) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var ack struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("telegram returned %d: unreadable response", resp.StatusCode)
	}
	if !ack.OK {
		return fmt.Errorf("telegram rejected message: %s", ack.Description)
	}
	return nil
}
