// Package sms posts messages to the Textbelt HTTP gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

type Client struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Key     string `json:"key"`
}

type sendResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	QuotaRemaining int    `json:"quotaRemaining"`
}

// Send posts one message and reports the gateway's per-message verdict
// as an error.
func (c *Client) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(sendRequest{Phone: phone, Message: message, Key: c.APIKey})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("sms gateway rejected send to %s: %s", phone, out.Error)
	}
	return nil
}

// Message pairs a recipient with its (possibly personalized) text.
type Message struct {
	Phone string
	Text  string
}

// Broadcast sends all messages concurrently and joins before returning.
// Failures are logged per recipient and never block the others; the
// caller's operation has already succeeded by the time fan-out runs.
func (c *Client) Broadcast(ctx context.Context, msgs []Message) {
	var wg sync.WaitGroup
	for _, m := range msgs {
		wg.Add(1)
		go func(m Message) {
			defer wg.Done()
			if err := c.Send(ctx, m.Phone, m.Text); err != nil {
				log.Printf("failed to send SMS to %s: %v\n", m.Phone, err)
			}
		}(m)
	}
	wg.Wait()
}
