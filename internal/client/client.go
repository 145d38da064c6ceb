// Package client is the view layer's contract with the API, expressed
// without a UI framework: form validation, plan fetching with the
// fixed-date override, modal state machines and carousel paging.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oiwai-app/oiwai-server/internal/types"
)

// FieldErrors maps form field names to inline error messages. Returned
// before any network call is made.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

// Client talks to the planner API the way the original form did: one
// outstanding call per action, stale results retained until replaced.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu       sync.Mutex
	lastPlan *types.PlanResponse
}

func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ValidatePlanForm enforces the required fields. Text and who are
// mandatory; when/prefecture/city are optional.
func ValidatePlanForm(form types.PlanRequest) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(form.Text) == "" {
		errs["text"] = "お祝い事の種類を入力してください"
	}
	if strings.TrimSpace(form.Who) == "" {
		errs["who"] = "誰のためのお祝いか入力してください"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FetchPlan validates the form, calls askCelebration and applies the
// client-side fixed-date override: when the user supplied a date, the
// schedule is cleared no matter what the server returned.
func (c *Client) FetchPlan(ctx context.Context, form types.PlanRequest) (*types.PlanResponse, error) {
	if errs := ValidatePlanForm(form); errs != nil {
		return nil, errs
	}

	params := url.Values{}
	params.Set("text", form.Text)
	params.Set("who", form.Who)
	if form.When != "" {
		params.Set("when", form.When)
	}
	if form.Prefecture != "" {
		params.Set("prefecture", form.Prefecture)
	}
	if form.City != "" {
		params.Set("city", form.City)
	}

	var plan types.PlanResponse
	if err := c.getJSON(ctx, "/askCelebration", params, &plan); err != nil {
		return nil, err
	}

	if form.When != "" {
		plan.Schedule = []types.ScheduleEntry{}
	}

	c.mu.Lock()
	c.lastPlan = &plan
	c.mu.Unlock()
	return &plan, nil
}

// LastPlan returns the most recently fetched plan, or nil. Kept so a failed
// refresh leaves the previous results on screen.
func (c *Client) LastPlan() *types.PlanResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPlan
}

// CheckCelebration asks the API whether free text names a celebration.
func (c *Client) CheckCelebration(ctx context.Context, text string) (bool, error) {
	params := url.Values{}
	params.Set("text", text)

	var check types.CheckResponse
	if err := c.getJSON(ctx, "/isCelebration", params, &check); err != nil {
		return false, err
	}
	return check.Check, nil
}

// FetchItemsDetail loads the item detail payload for a modal.
func (c *Client) FetchItemsDetail(ctx context.Context, item, celebration string) (*types.ItemsDetailResponse, error) {
	params := url.Values{}
	params.Set("text", item)
	params.Set("celebration", celebration)

	var detail types.ItemsDetailResponse
	if err := c.getJSON(ctx, "/itemsDetail", params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FetchEventDetail loads the event detail payload for a modal.
func (c *Client) FetchEventDetail(ctx context.Context, event, celebration, prefecture, city string) (*types.EventDetailResponse, error) {
	params := url.Values{}
	params.Set("event", event)
	params.Set("celebration", celebration)
	if prefecture != "" {
		params.Set("prefecture", prefecture)
	}
	if city != "" {
		params.Set("city", city)
	}

	var detail types.EventDetailResponse
	if err := c.getJSON(ctx, "/eventDetail", params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FetchReadyDetail loads the readiness task payload for a modal.
func (c *Client) FetchReadyDetail(ctx context.Context, task, celebration string) (*types.ReadyDetailResponse, error) {
	params := url.Values{}
	params.Set("text", task)
	params.Set("celebration", celebration)

	var detail types.ReadyDetailResponse
	if err := c.getJSON(ctx, "/readyDetail", params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SearchRelatedItems runs the product lookup by composite keyword
// (occasion + item name).
func (c *Client) SearchRelatedItems(ctx context.Context, celebration, itemName string) ([]types.Product, error) {
	params := url.Values{}
	params.Set("keyword", strings.TrimSpace(celebration+" "+itemName))

	var result types.ProductSearchResponse
	if err := c.getJSON(ctx, "/searchRelatedItems", params, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%s", result.Error)
	}
	return result.Items, nil
}

// SearchPlaces runs the place search.
func (c *Client) SearchPlaces(ctx context.Context, prefecture, city, keyword string) (*types.PlaceSearchResponse, error) {
	params := url.Values{}
	params.Set("prefecture", prefecture)
	params.Set("city", city)
	params.Set("keyword", keyword)

	var result types.PlaceSearchResponse
	if err := c.getJSON(ctx, "/searchPlaces", params, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("%s", result.Error)
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst interface{}) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		// searchPlaces reports failure via status; the body still carries
		// the error payload.
		if err := json.NewDecoder(resp.Body).Decode(dst); err == nil {
			return nil
		}
		return fmt.Errorf("APIリクエストに失敗しました (status %d)", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
