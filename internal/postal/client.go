package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"clegacy/internal/cache"
	"clegacy/internal/model"
)

const (
	// DefaultBaseURL is the public ViaCEP endpoint.
	DefaultBaseURL = "https://viacep.com.br"
	cacheTTL       = 24 * time.Hour
)

var nonDigit = regexp.MustCompile(`\D`)

// lookupResponse is the ViaCEP JSON body.
type lookupResponse struct {
	PostalCode   string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	// Erro is true (or "true") for unknown codes.
	Erro any `json:"erro"`
}

// Client looks up postal codes for address autofill. Every failure reads as
// "no data".
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Client
	logger     *slog.Logger
}

// NewClient constructs a postal lookup client. cache may be nil.
func NewClient(baseURL string, timeout time.Duration, cache *cache.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		logger:     slog.Default(),
	}
}

// Normalize strips punctuation and reports whether code has eight digits.
func Normalize(code string) (string, bool) {
	digits := nonDigit.ReplaceAllString(code, "")
	return digits, len(digits) == 8
}

// Lookup returns the address of code, or false when the code is malformed,
// unknown, or the service cannot be reached.
func (c *Client) Lookup(ctx context.Context, code string) (*model.Address, bool) {
	digits, ok := Normalize(code)
	if !ok {
		return nil, false
	}

	key := "postal:" + digits
	var cached model.Address
	if c.cache.GetJSON(ctx, key, &cached) {
		return &cached, true
	}

	addr, err := c.fetch(ctx, digits)
	if err != nil {
		c.logger.Warn("postal lookup failed", "code", digits, "error", err)
		return nil, false
	}
	if addr == nil {
		return nil, false
	}
	_ = c.cache.SetJSON(ctx, key, addr, cacheTTL)
	return addr, true
}

func (c *Client) fetch(ctx context.Context, digits string) (*model.Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if isTrue(body.Erro) {
		return nil, nil
	}
	return &model.Address{
		PostalCode:   body.PostalCode,
		Street:       body.Street,
		Complement:   body.Complement,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		State:        body.State,
	}, nil
}

func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}
