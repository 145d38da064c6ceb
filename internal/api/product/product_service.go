package product

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oiwai-app/oiwai-server/app/observability/metrics"
	"github.com/oiwai-app/oiwai-server/internal/types"
)

// Service searches the product catalog by keyword.
type Service interface {
	SearchItems(ctx context.Context, keyword string) ([]types.Product, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	httpClient    *http.Client
	baseURL       string
	applicationID string
	hits          int
}

var _ Service = (*ServiceImpl)(nil)

func NewService(baseURL, applicationID string, hits int, logger *slog.Logger) *ServiceImpl {
	if hits <= 0 {
		hits = 10
	}
	metrics.InitAppMetrics()
	return &ServiceImpl{
		logger:        logger,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		baseURL:       baseURL,
		applicationID: applicationID,
		hits:          hits,
	}
}

// ichibaPayload is the subset of the Ichiba item search response this
// service reads.
type ichibaPayload struct {
	Items []struct {
		Item struct {
			ItemName      string `json:"itemName"`
			ItemPrice     int    `json:"itemPrice"`
			ItemURL       string `json:"itemUrl"`
			MediumImageUrls []struct {
				ImageURL string `json:"imageUrl"`
			} `json:"mediumImageUrls"`
			ShopName      string  `json:"shopName"`
			ReviewAverage float64 `json:"reviewAverage"`
		} `json:"Item"`
	} `json:"Items"`
}

// SearchItems queries the product-search API by keyword, sorted by review
// count so the carousel leads with well-reviewed items.
func (s *ServiceImpl) SearchItems(ctx context.Context, keyword string) ([]types.Product, error) {
	q := url.Values{}
	q.Set("applicationId", s.applicationID)
	q.Set("keyword", keyword)
	q.Set("hits", strconv.Itoa(s.hits))
	q.Set("sort", "-reviewCount")
	q.Set("format", "json")

	reqURL := fmt.Sprintf("%s/services/api/IchibaItem/Search/20220601?%s", s.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build item search request: %w", err)
	}

	m := metrics.Get()
	start := time.Now()
	resp, err := s.httpClient.Do(req)
	m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("item search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.UpstreamErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("item search returned status %d", resp.StatusCode)
	}

	var payload ichibaPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode item search response: %w", err)
	}

	products := make([]types.Product, 0, len(payload.Items))
	for _, wrapper := range payload.Items {
		item := wrapper.Item
		product := types.Product{
			ItemName:      item.ItemName,
			ItemPrice:     item.ItemPrice,
			ItemURL:       item.ItemURL,
			ShopName:      item.ShopName,
			ReviewAverage: item.ReviewAverage,
		}
		if len(item.MediumImageUrls) > 0 {
			product.ImageURL = item.MediumImageUrls[0].ImageURL
		}
		products = append(products, product)
	}
	return products, nil
}
