package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var apiClient = &http.Client{Timeout: 10 * time.Second}

// fetchJSON performs a GET against the daemon API and decodes the
// response body into out. Non-2xx responses surface the daemon's error
// message when one is present.
func fetchJSON(baseURL, path string, out any) error {
	resp, err := apiClient.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("contact easel daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			return fmt.Errorf("daemon error (%d): %s", resp.StatusCode, payload.Error)
		}
		return fmt.Errorf("daemon error (%d)", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode daemon response: %w", err)
	}
	return nil
}
