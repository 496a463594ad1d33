package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/powerwalk-app/powerwalk/internal/daemon"
)

// ─── Daemon Client Helpers ──────────────────────────────────────────────────

var httpClient = &http.Client{Timeout: 10 * time.Second}

// loadConfig resolves the config file from --config, the POWERWALK_CONFIG
// environment variable, or the default location.
func loadConfig(cmd *cobra.Command) (daemon.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("POWERWALK_CONFIG")
	}
	if path == "" {
		path = daemon.DefaultConfigPath()
	}
	return daemon.LoadConfig(path)
}

// baseURL resolves the daemon address from --addr, POWERWALK_ADDR, or the
// configured listen address.
func baseURL(cmd *cobra.Command) string {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = os.Getenv("POWERWALK_ADDR")
	}
	if addr == "" {
		cfg, err := loadConfig(cmd)
		if err == nil {
			addr = cfg.API.Addr()
		} else {
			addr = daemon.DefaultConfig().API.Addr()
		}
	}
	return "http://" + addr
}

// apiGet performs a GET against the daemon and decodes the JSON response.
func apiGet(cmd *cobra.Command, path string) (map[string]interface{}, error) {
	resp, err := httpClient.Get(baseURL(cmd) + path)
	if err != nil {
		return nil, fmt.Errorf("daemon not reachable (is 'powerwalk serve' running?): %w", err)
	}
	return decodeResponse(resp)
}

// apiPost performs a POST with a JSON body and decodes the response.
func apiPost(cmd *cobra.Command, path string, body interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Post(baseURL(cmd)+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("daemon not reachable (is 'powerwalk serve' running?): %w", err)
	}
	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (map[string]interface{}, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out map[string]interface{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("unexpected response: %s", string(data))
		}
	}
	if resp.StatusCode >= 400 {
		if errObj, ok := out["error"].(map[string]interface{}); ok {
			if msg, ok := errObj["message"].(string); ok {
				return nil, fmt.Errorf("%s", msg)
			}
		}
		return nil, fmt.Errorf("daemon returned HTTP %d", resp.StatusCode)
	}
	return out, nil
}

// asInt reads a numeric JSON field.
func asInt(m map[string]interface{}, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

// asString reads a string JSON field.
func asString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
