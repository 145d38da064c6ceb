package celebration

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiwai-app/oiwai-server/internal/types"
)

type stubService struct {
	plan        *types.PlanResponse
	check       *types.CheckResponse
	itemsDetail *types.ItemsDetailResponse
	eventDetail *types.EventDetail
	readyDetail *types.ReadyDetailResponse
	err         error

	gotPlanReq types.PlanRequest
}

func (s *stubService) Plan(ctx context.Context, req types.PlanRequest) (*types.PlanResponse, error) {
	s.gotPlanReq = req
	return s.plan, s.err
}

func (s *stubService) Check(ctx context.Context, text string) (*types.CheckResponse, error) {
	return s.check, s.err
}

func (s *stubService) ItemsDetail(ctx context.Context, item, occasion string) (*types.ItemsDetailResponse, error) {
	return s.itemsDetail, s.err
}

func (s *stubService) EventDetail(ctx context.Context, event, occasion, prefecture, city string) (*types.EventDetail, error) {
	return s.eventDetail, s.err
}

func (s *stubService) ReadyDetail(ctx context.Context, task, occasion string) (*types.ReadyDetailResponse, error) {
	return s.readyDetail, s.err
}

func TestAskCelebrationSuccess(t *testing.T) {
	svc := &stubService{plan: &types.PlanResponse{
		Message:  "おめでとうございます",
		Schedule: []types.ScheduleEntry{{Date: "2026-04-05", Reason: "週末"}},
		Ready:    []string{"a", "b", "c"},
		Items:    []string{"a", "b", "c"},
		Events:   []types.Event{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	}}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/askCelebration?text=入学式&who=息子&prefecture=東京都&city=千代田区", nil)
	rec := httptest.NewRecorder()
	handler.AskCelebration(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got types.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "おめでとうございます", got.Message)
	assert.Nil(t, got.Error)

	assert.Equal(t, "入学式", svc.gotPlanReq.Text)
	assert.Equal(t, "息子", svc.gotPlanReq.Who)
	assert.Equal(t, "東京都", svc.gotPlanReq.Prefecture)
}

func TestAskCelebrationFailsOpen(t *testing.T) {
	svc := &stubService{err: errors.New("model exploded")}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/askCelebration?text=入学式&who=息子", nil)
	rec := httptest.NewRecorder()
	handler.AskCelebration(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "plan failures still return 200")

	var got types.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Error)
	assert.Equal(t, planErrorMessage, *got.Error)
	assert.NotNil(t, got.Schedule, "collections are empty arrays, not null")
	assert.Empty(t, got.Schedule)
	assert.Empty(t, got.Ready)
	assert.Empty(t, got.Items)
	assert.Empty(t, got.Events)
}

func TestAskCelebrationErrorPayloadShape(t *testing.T) {
	svc := &stubService{err: errors.New("boom")}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/askCelebration", nil)
	rec := httptest.NewRecorder()
	handler.AskCelebration(rec, req)

	// The client renders arrays unconditionally, so the JSON must carry [] not
	// null for every collection.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"schedule", "ready", "items", "events"} {
		assert.JSONEq(t, "[]", string(raw[key]), "field %s", key)
	}
}

func TestIsCelebrationSuccess(t *testing.T) {
	svc := &stubService{check: &types.CheckResponse{Check: true}}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/isCelebration?text=七五三", nil)
	rec := httptest.NewRecorder()
	handler.IsCelebration(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"check": true}`, rec.Body.String())
}

func TestIsCelebrationFailsClosed(t *testing.T) {
	svc := &stubService{err: errors.New("model exploded")}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/isCelebration?text=会議", nil)
	rec := httptest.NewRecorder()
	handler.IsCelebration(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"check": false}`, rec.Body.String(), "classification failure degrades to not-a-celebration")
}

func TestItemsDetailFailsOpen(t *testing.T) {
	svc := &stubService{err: errors.New("parse error")}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/itemsDetail?text=花束&celebration=入学式", nil)
	rec := httptest.NewRecorder()
	handler.ItemsDetail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got types.ItemsDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Error)
	assert.Equal(t, detailErrorMessage, *got.Error)
	assert.NotNil(t, got.Categories)
	assert.Empty(t, got.Categories)
}

func TestEventDetailSuccessEnvelope(t *testing.T) {
	svc := &stubService{eventDetail: &types.EventDetail{
		Description:          "七五三は子供の成長を祝う行事です",
		CulturalSignificance: "伝統行事",
		RecommendedDates:     []types.RecommendedDate{{Date: "2026-11-15", Reason: "七五三の日"}},
	}}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/eventDetail?event=七五三&celebration=七五三", nil)
	rec := httptest.NewRecorder()
	handler.EventDetail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got types.EventDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.EventDetails)
	assert.Equal(t, "七五三は子供の成長を祝う行事です", got.EventDetails.Description)
	assert.Nil(t, got.Error)
}

func TestEventDetailFailsOpen(t *testing.T) {
	svc := &stubService{err: errors.New("model exploded")}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/eventDetail?event=七五三", nil)
	rec := httptest.NewRecorder()
	handler.EventDetail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got types.EventDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got.EventDetails)
	require.NotNil(t, got.Error)
	assert.Equal(t, detailErrorMessage, *got.Error)
}

func TestReadyDetailFailsOpen(t *testing.T) {
	svc := &stubService{err: errors.New("model exploded")}
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/readyDetail?text=会場の予約", nil)
	rec := httptest.NewRecorder()
	handler.ReadyDetail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got types.ReadyDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Error)
	assert.NotNil(t, got.Steps)
	assert.Empty(t, got.Steps)
}
