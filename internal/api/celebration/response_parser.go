package celebration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oiwai-app/oiwai-server/internal/types"
)

// sanitizeModelJSON strips a wrapping markdown code fence from model output.
// Only a leading ``` / ```json line and a trailing ``` are removed; interior
// text is left untouched, so already-clean JSON passes through unchanged.
func sanitizeModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		rest := s[3:]
		if strings.HasPrefix(rest, "json") || strings.HasPrefix(rest, "JSON") {
			rest = rest[4:]
		}
		s = strings.TrimLeft(rest, "\r\n")
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimRight(s[:len(s)-3], "\r\n \t")
	}
	return s
}

func parsePlan(raw string) (*types.PlanResponse, error) {
	var plan types.PlanResponse
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}
	if len(plan.Ready) < 3 {
		return nil, fmt.Errorf("plan has %d ready items, want at least 3", len(plan.Ready))
	}
	if len(plan.Items) < 3 {
		return nil, fmt.Errorf("plan has %d items, want at least 3", len(plan.Items))
	}
	if len(plan.Events) < 3 {
		return nil, fmt.Errorf("plan has %d events, want at least 3", len(plan.Events))
	}
	return &plan, nil
}

func parseCheck(raw string) (*types.CheckResponse, error) {
	var check types.CheckResponse
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &check); err != nil {
		return nil, fmt.Errorf("failed to parse check JSON: %w", err)
	}
	return &check, nil
}

func parseItemsDetail(raw string) (*types.ItemsDetailResponse, error) {
	var detail types.ItemsDetailResponse
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &detail); err != nil {
		return nil, fmt.Errorf("failed to parse items detail JSON: %w", err)
	}
	if len(detail.Categories) == 0 {
		return nil, fmt.Errorf("items detail has no categories")
	}
	return &detail, nil
}

func parseEventDetail(raw string) (*types.EventDetail, error) {
	var detail types.EventDetail
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &detail); err != nil {
		return nil, fmt.Errorf("failed to parse event detail JSON: %w", err)
	}
	if detail.Description == "" {
		return nil, fmt.Errorf("event detail has no description")
	}
	return &detail, nil
}

func parseReadyDetail(raw string) (*types.ReadyDetailResponse, error) {
	var detail types.ReadyDetailResponse
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &detail); err != nil {
		return nil, fmt.Errorf("failed to parse ready detail JSON: %w", err)
	}
	if detail.Title == "" || len(detail.Steps) == 0 {
		return nil, fmt.Errorf("ready detail is missing title or steps")
	}
	return &detail, nil
}
