package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

// HTTPSource calls a flight-data sidecar: GET {base}/flights?from=&to=&date=
// answering {"flights": [RawLeg...]}.
type HTTPSource struct {
	base   string
	client *http.Client
}

func NewHTTPSource(base string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type httpResponse struct {
	Flights []domain.RawLeg `json:"flights"`
}

func (s *HTTPSource) Search(ctx context.Context, q Query) ([]domain.RawLeg, error) {
	params := url.Values{}
	params.Set("from", q.Origin)
	params.Set("to", q.Destination)
	params.Set("date", q.Date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/flights?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTemporary, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrTemporary, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("flight source returned status %d", resp.StatusCode)
	}

	var body httpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTemporary, err)
	}
	return body.Flights, nil
}
