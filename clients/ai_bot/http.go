package ai_bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxResponseBytes = 1 << 20

type clientImpl struct {
	apiHost    string
	deviceID   string
	httpClient *http.Client
}

type Config struct {
	ApiHost  string
	DeviceID string
	// HTTPClient defaults to a client without a timeout; conversations are
	// bounded by the caller's context instead.
	HTTPClient *http.Client
}

func NewClient(cfg *Config) (AIBotAPI, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	if cfg.ApiHost == "" {
		return nil, errors.New("missing parameter: cfg.ApiHost")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &clientImpl{
		apiHost:    strings.TrimRight(cfg.ApiHost, "/"),
		deviceID:   cfg.DeviceID,
		httpClient: httpClient,
	}, nil
}

func (client *clientImpl) StartConversation(ctx context.Context, trigger string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.apiHost+"/conversation", nil)
	if err != nil {
		return "", err
	}

	q := req.URL.Query()
	q.Add("trigger", trigger)

	if client.deviceID != "" {
		q.Add("device", client.deviceID)
	}

	req.URL.RawQuery = q.Encode()

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("dialogue service returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return string(body), nil
}
