package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"acai-backend/internal/domain"
)

var (
	ErrInvalidCEP   = errors.New("cep must have 8 digits")
	ErrLookupFailed = errors.New("cep lookup failed")
)

// Geocoder resolves a postal code to an address with coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, cep string) (Address, error)
}

// CEPClient queries an awesomeapi-compatible endpoint: GET {BaseURL}{cep}.
type CEPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewCEPClient(baseURL string, timeout time.Duration) *CEPClient {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &CEPClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: timeout}}
}

type cepResponse struct {
	CEP      string `json:"cep"`
	Address  string `json:"address"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	Lat      string `json:"lat"`
	Lng      string `json:"lng"`
}

func (c *CEPClient) Lookup(ctx context.Context, cep string) (Address, error) {
	cep = domain.NormalizeCEP(cep)
	if len(cep) != 8 {
		return Address{}, ErrInvalidCEP
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+cep, nil)
	if err != nil {
		return Address{}, err
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body cepResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("%w: decode: %v", ErrLookupFailed, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(body.Lat), 64)
	if err != nil {
		return Address{}, fmt.Errorf("%w: invalid lat %q", ErrLookupFailed, body.Lat)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(body.Lng), 64)
	if err != nil {
		return Address{}, fmt.Errorf("%w: invalid lng %q", ErrLookupFailed, body.Lng)
	}
	return Address{
		CEP:      cep,
		Street:   body.Address,
		District: body.District,
		City:     body.City,
		State:    body.State,
		Lat:      lat,
		Lon:      lon,
	}, nil
}
