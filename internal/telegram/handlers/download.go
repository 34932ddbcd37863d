package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	httpclient "github.com/futig/rag-query-client/pkg/http"
)

// TelegramFiles downloads files from the Telegram file API
type TelegramFiles struct {
	connector *httpclient.Connector
}

func NewTelegramFiles(connector *httpclient.Connector) *TelegramFiles {
	return &TelegramFiles{connector: connector}
}

// Download fetches the raw file bytes; only https links are accepted.
// The link embeds the bot token, so it never appears in returned errors.
func (f *TelegramFiles) Download(ctx context.Context, fileURL string) ([]byte, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return nil, errors.New("invalid file URL")
	}
	if parsed.Scheme != "https" {
		return nil, fmt.Errorf("insecure URL scheme: %s (expected https)", parsed.Scheme)
	}

	var data []byte
	if err := f.connector.DoRequest(ctx, http.MethodGet, "", nil, &data, httpclient.WithURL(fileURL)); err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	return data, nil
}
