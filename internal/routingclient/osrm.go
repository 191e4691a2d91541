package routingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// osrmProvider talks to an OSRM /table and /route HTTP API (spec.md §6.2's
// "provider" configuration, osrm variant).
type osrmProvider struct {
	baseURL string
	client  http.Client
}

func newOSRMProvider(baseURL string) *osrmProvider {
	return &osrmProvider{baseURL: baseURL, client: http.Client{Timeout: 30 * time.Second}}
}

func (p *osrmProvider) Name() string { return "osrm" }

type osrmTableResponse struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Durations [][]float64 `json:"durations"`
	Distances [][]float64 `json:"distances"`
}

func (p *osrmProvider) Matrix(ctx context.Context, profile string, coords [][2]float64) ([][]int64, [][]int64, error) {
	url := fmt.Sprintf("%s/table/v1/%s/%s?annotations=duration,distance", p.baseURL, profile, encodeCoords(coords))
	var resp osrmTableResponse
	if err := p.get(ctx, url, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Code != "Ok" {
		return nil, nil, fmt.Errorf("osrm table: %s: %s", resp.Code, resp.Message)
	}
	return roundTable(resp.Durations), roundTable(resp.Distances), nil
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

func (p *osrmProvider) Route(ctx context.Context, profile string, from, to [2]float64) (string, int64, int64, error) {
	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=polyline", p.baseURL, profile, encodeCoords([][2]float64{from, to}))
	var resp osrmRouteResponse
	if err := p.get(ctx, url, &resp); err != nil {
		return "", 0, 0, err
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return "", 0, 0, fmt.Errorf("osrm route: %s", resp.Code)
	}
	r := resp.Routes[0]
	return r.Geometry, int64(r.Distance), int64(r.Duration), nil
}

func (p *osrmProvider) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("osrm request failed: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func encodeCoords(coords [][2]float64) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = strconv.FormatFloat(c[0], 'f', 6, 64) + "," + strconv.FormatFloat(c[1], 'f', 6, 64)
	}
	return strings.Join(parts, ";")
}

func roundTable(rows [][]float64) [][]int64 {
	out := make([][]int64, len(rows))
	for i, row := range rows {
		out[i] = make([]int64, len(row))
		for j, v := range row {
			out[i][j] = int64(v + 0.5)
		}
	}
	return out
}
