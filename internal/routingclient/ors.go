package routingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// orsProvider talks to an OpenRouteService /v2/matrix and /v2/directions
// HTTP API (spec.md §6.2's "provider" configuration, ors variant).
type orsProvider struct {
	baseURL string
	apiKey  string
	client  http.Client
}

func newORSProvider(baseURL, apiKey string) *orsProvider {
	return &orsProvider{baseURL: baseURL, apiKey: apiKey, client: http.Client{Timeout: 30 * time.Second}}
}

func (p *orsProvider) Name() string { return "ors" }

type orsMatrixRequest struct {
	Locations [][2]float64 `json:"locations"`
	Metrics   []string     `json:"metrics"`
}

type orsMatrixResponse struct {
	Durations [][]float64 `json:"durations"`
	Distances [][]float64 `json:"distances"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *orsProvider) Matrix(ctx context.Context, profile string, coords [][2]float64) ([][]int64, [][]int64, error) {
	body := orsMatrixRequest{Locations: coords, Metrics: []string{"duration", "distance"}}
	var resp orsMatrixResponse
	url := fmt.Sprintf("%s/v2/matrix/%s", p.baseURL, profile)
	if err := p.post(ctx, url, body, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Error != nil {
		return nil, nil, fmt.Errorf("ors matrix: %s", resp.Error.Message)
	}
	return roundTable(resp.Durations), roundTable(resp.Distances), nil
}

type orsDirectionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type orsDirectionsResponse struct {
	Routes []struct {
		Geometry string `json:"geometry"`
		Summary  struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *orsProvider) Route(ctx context.Context, profile string, from, to [2]float64) (string, int64, int64, error) {
	body := orsDirectionsRequest{Coordinates: [][2]float64{from, to}}
	var resp orsDirectionsResponse
	url := fmt.Sprintf("%s/v2/directions/%s", p.baseURL, profile)
	if err := p.post(ctx, url, body, &resp); err != nil {
		return "", 0, 0, err
	}
	if resp.Error != nil || len(resp.Routes) == 0 {
		return "", 0, 0, fmt.Errorf("ors directions: no route returned")
	}
	r := resp.Routes[0]
	return r.Geometry, int64(r.Summary.Distance), int64(r.Summary.Duration), nil
}

func (p *orsProvider) post(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", p.apiKey)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ors request failed: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
