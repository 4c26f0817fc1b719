package erp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/selector"
)

// Colors for terminal output
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

// Config holds the CLI configuration
type Config struct {
	ERPVPN          string
	ERPURL          string
	APIKey          string
	APISecret       string
	NginxCookie     string
	NginxCookieName string // Cookie name for reverse proxy auth (default: "auth_cookie")
	Company         string // Company used for pick list warehouse defaults (auto-detected if empty)
	Brand           string // CLI branding shown in TUI (default: "C4 Pricing")
	LogLevel        string // debug, info, warn or error (default: warn)
	LogFormat       string // text or json (default: text)
	SettingsPath    string // YAML site settings (default: c4pricing.yaml next to the config)

	path string
}

// Client handles API requests
type Client struct {
	Config     *Config
	HTTPClient *http.Client
	ActiveURL  string
	Mode       string // "vpn" or "internet"
	Settings   *Settings
	Log        *slog.Logger
}

// APIError is a failed Frappe call.
type APIError struct {
	Status    int
	Exception string
	Messages  []string
}

func (e *APIError) Error() string {
	msg := e.Exception
	if len(e.Messages) > 0 {
		msg = strings.Join(e.Messages, "; ")
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("API error (%d): %s", e.Status, msg)
}

// configPaths lists where LoadConfig looks, in order.
func configPaths() []string {
	if p := os.Getenv("C4P_CONFIG"); p != "" {
		return []string{p}
	}
	return []string{
		".erp-config",
		"../.erp-config",
		filepath.Join(filepath.Dir(os.Args[0]), ".erp-config"),
		filepath.Join(filepath.Dir(os.Args[0]), "..", ".erp-config"),
	}
}

// LoadConfig reads the .erp-config file
func LoadConfig() (*Config, error) {
	var configPath string
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			configPath = p
			break
		}
	}

	if configPath == "" {
		return nil, fmt.Errorf("config file not found. Copy .erp-config.example to .erp-config")
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open config: %w", err)
	}
	defer file.Close()

	config, err := parseConfig(file)
	if err != nil {
		return nil, err
	}
	config.path = configPath
	return config, nil
}

func parseConfig(r io.Reader) (*Config, error) {
	config := &Config{
		NginxCookieName: "auth_cookie",
		Brand:           "C4 Pricing",
		LogLevel:        "warn",
		LogFormat:       "text",
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"'")

		switch key {
		case "ERP_VPN":
			config.ERPVPN = strings.TrimRight(value, "/")
		case "ERP_URL":
			config.ERPURL = strings.TrimRight(value, "/")
		case "ERP_API_KEY":
			config.APIKey = value
		case "ERP_API_SECRET":
			config.APISecret = value
		case "NGINX_COOKIE":
			config.NginxCookie = value
		case "NGINX_COOKIE_NAME":
			if value != "" {
				config.NginxCookieName = value
			}
		case "ERP_COMPANY":
			config.Company = value
		case "ERP_BRAND":
			if value != "" {
				config.Brand = value
			}
		case "LOG_LEVEL":
			if value != "" {
				config.LogLevel = strings.ToLower(value)
			}
		case "LOG_FORMAT":
			if value != "" {
				config.LogFormat = strings.ToLower(value)
			}
		case "C4P_SETTINGS":
			config.SettingsPath = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if config.ERPURL == "" || config.APIKey == "" || config.APISecret == "" {
		return nil, fmt.Errorf("missing required config: ERP_URL, ERP_API_KEY, ERP_API_SECRET")
	}

	return config, nil
}

// settingsFile resolves the settings path relative to the config file.
func (c *Config) settingsFile() string {
	p := c.SettingsPath
	if p == "" {
		p = DefaultSettingsFile
	}
	if filepath.IsAbs(p) || c.path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.path), p)
}

// NewClient creates a new API client
func NewClient(config *Config) *Client {
	return &Client{
		Config: config,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		ActiveURL: config.ERPURL,
		Mode:      "internet",
		Settings:  DefaultSettings(),
		Log:       NewLogger(config.LogLevel, config.LogFormat, os.Stderr),
	}
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.Config.APIKey, c.Config.APISecret))
	if c.Mode == "internet" && c.Config.NginxCookie != "" {
		req.AddCookie(&http.Cookie{Name: c.Config.NginxCookieName, Value: c.Config.NginxCookie})
	}
}

// DetectConnection tries VPN first, falls back to internet
func (c *Client) DetectConnection(ctx context.Context) {
	if c.Config.ERPVPN != "" {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Config.ERPVPN+"/api/method/frappe.auth.get_logged_user", nil)
		if err == nil {
			req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.Config.APIKey, c.Config.APISecret))
			resp, err := c.HTTPClient.Do(req)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					c.Mode = "vpn"
					c.ActiveURL = c.Config.ERPVPN
					return
				}
			}
		}
	}

	c.Mode = "internet"
	c.ActiveURL = c.Config.ERPURL
}

// do sends one request and returns the decoded top-level object.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (map[string]json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	fullURL := c.ActiveURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result map[string]json.RawMessage
	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{Status: resp.StatusCode, Exception: strings.TrimSpace(string(respBody))}
		}
		return nil, fmt.Errorf("failed to parse response: %s", string(respBody))
	}

	_, hasExc := result["exception"]
	_, hasType := result["exc_type"]
	if resp.StatusCode >= 400 || hasExc || hasType {
		return nil, newAPIError(resp.StatusCode, result)
	}

	return result, nil
}

func newAPIError(status int, result map[string]json.RawMessage) *APIError {
	e := &APIError{Status: status}
	var s string
	if json.Unmarshal(result["exception"], &s) == nil {
		e.Exception = s
	} else if json.Unmarshal(result["exc_type"], &s) == nil {
		e.Exception = s
	}
	e.Messages = serverMessages(result["_server_messages"])
	return e
}

// serverMessages decodes Frappe's doubly encoded _server_messages list.
func serverMessages(raw json.RawMessage) []string {
	var outer string
	if len(raw) == 0 || json.Unmarshal(raw, &outer) != nil {
		return nil
	}
	var items []string
	if json.Unmarshal([]byte(outer), &items) != nil {
		return nil
	}

	var msgs []string
	for _, it := range items {
		var m struct {
			Message string `json:"message"`
		}
		if json.Unmarshal([]byte(it), &m) == nil && m.Message != "" {
			msgs = append(msgs, selector.StripHTML(m.Message))
		} else {
			msgs = append(msgs, it)
		}
	}
	return msgs
}

func resourcePath(doctype string, name ...string) string {
	p := "/api/resource/" + url.PathEscape(doctype)
	for _, n := range name {
		p += "/" + url.PathEscape(n)
	}
	return p
}

func decodeData(raw map[string]json.RawMessage, v interface{}) error {
	data, ok := raw["data"]
	if !ok {
		return fmt.Errorf("response has no data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse data: %w", err)
	}
	return nil
}

// GetDoc fetches one document with its child tables.
func (c *Client) GetDoc(ctx context.Context, doctype, name string) (doc.Doc, error) {
	raw, err := c.do(ctx, http.MethodGet, resourcePath(doctype, name), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", doctype, name, err)
	}
	var d doc.Doc
	if err := decodeData(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// SaveDoc inserts d when it has no name and updates it otherwise.
func (c *Client) SaveDoc(ctx context.Context, doctype string, d doc.Doc) (doc.Doc, error) {
	method, path := http.MethodPost, resourcePath(doctype)
	if name := d.Name(); name != "" {
		method, path = http.MethodPut, resourcePath(doctype, name)
	}

	raw, err := c.do(ctx, method, path, nil, d)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", doctype, err)
	}
	var saved doc.Doc
	if err := decodeData(raw, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// GetList runs a list query.
func (c *Client) GetList(ctx context.Context, doctype string, q doc.ListQuery) ([]doc.Doc, error) {
	params, err := listParams(q)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, http.MethodGet, resourcePath(doctype), params, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", doctype, err)
	}
	var rows []doc.Doc
	if err := decodeData(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Call runs a whitelisted method and returns its message.
func (c *Client) Call(ctx context.Context, method string, args map[string]interface{}) (json.RawMessage, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/method/"+method, nil, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	msg, ok := raw["message"]
	if !ok {
		return json.RawMessage("null"), nil
	}
	return msg, nil
}

// LoggedUser returns the user the API key belongs to.
func (c *Client) LoggedUser(ctx context.Context) (string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/method/frappe.auth.get_logged_user", nil, nil)
	if err != nil {
		return "", err
	}
	var user string
	if err := json.Unmarshal(raw["message"], &user); err != nil || user == "" {
		return "", fmt.Errorf("authentication failed")
	}
	return user, nil
}

// CmdPing tests the connection
func (c *Client) CmdPing() error {
	fmt.Printf("%sTesting connection to ERP...%s\n", Blue, Reset)

	ctx := context.Background()
	c.DetectConnection(ctx)

	user, err := c.LoggedUser(ctx)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Printf("%s✓ Connection successful%s\n", Green, Reset)
	fmt.Printf("  Authenticated as: %s%s%s\n", Yellow, user, Reset)
	if c.Mode == "vpn" {
		fmt.Printf("  Mode: %sVPN direct%s (%s)\n", Cyan, Reset, c.ActiveURL)
	} else {
		fmt.Printf("  Mode: %sInternet%s (%s)\n", Yellow, Reset, c.ActiveURL)
	}
	return nil
}

// CmdConfig shows current configuration
func (c *Client) CmdConfig() error {
	s := c.Settings
	fmt.Printf("%sCurrent configuration:%s\n", Blue, Reset)
	if c.Config.ERPVPN != "" {
		fmt.Printf("  VPN URL: %s\n", c.Config.ERPVPN)
	} else {
		fmt.Printf("  VPN URL: %snot configured%s\n", Yellow, Reset)
	}
	fmt.Printf("  Internet URL: %s\n", c.Config.ERPURL)
	key := c.Config.APIKey
	if len(key) > 8 {
		key = key[:8]
	}
	fmt.Printf("  API Key: %s...\n", key)
	fmt.Printf("  API Secret: ****\n")

	if c.Config.NginxCookie != "" {
		fmt.Printf("  Nginx Cookie: configured\n")
	} else {
		fmt.Printf("  Nginx Cookie: %snot configured%s (needed for internet mode)\n", Yellow, Reset)
	}

	if c.Config.Company != "" {
		fmt.Printf("  Company: %s\n", c.Config.Company)
	}
	fmt.Printf("  Log: %s (%s)\n", c.Config.LogLevel, c.Config.LogFormat)

	fmt.Println()
	fmt.Printf("%sSettings:%s %s\n", Blue, Reset, c.Config.settingsFile())
	fmt.Printf("  Buying price list: %s\n", s.BuyingPriceList)
	fmt.Printf("  Materials root: %s\n", s.MaterialsRoot)
	fmt.Printf("  Standard table: %s (%s)\n", s.StandardTable, s.StandardDoctype)
	fmt.Printf("  Currency: %s\n", s.Currency)

	fmt.Println()
	c.DetectConnection(context.Background())
	if c.Mode == "vpn" {
		fmt.Printf("  Active mode: %sVPN direct%s\n", Cyan, Reset)
	} else {
		fmt.Printf("  Active mode: %sInternet%s\n", Yellow, Reset)
	}
	fmt.Printf("  Active URL: %s\n", c.ActiveURL)

	return nil
}
