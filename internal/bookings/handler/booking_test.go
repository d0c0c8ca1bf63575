package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "lanebook/pkg/errors"
	"lanebook/pkg/logger"
	"lanebook/pkg/model"
)

type mockBookingService struct {
	attemptFunc func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	queryFunc   func(ctx context.Context, date string, laneID string) ([]*model.Booking, error)
}

func (m *mockBookingService) Attempt(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if m.attemptFunc != nil {
		return m.attemptFunc(ctx, req)
	}
	return &model.Booking{ID: "652f8aab9d2f4b1a3c9e77bb"}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, apperrors.NotFound("Booking")
}

func (m *mockBookingService) QueryByDate(ctx context.Context, date string, laneID string) ([]*model.Booking, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, date, laneID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingService) ListByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Code, body.Message
}

func TestAttempt_ConflictMapsTo409(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{
		attemptFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return nil, apperrors.Conflict("The requested slot is no longer free")
		},
	}, testLogger())

	payload := `{"lane_id":"652f8aab9d2f4b1a3c9e77aa","date":"2026-09-01","start":"10:00","duration_min":60,"requester_id":"member-42"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(payload))
	w := httptest.NewRecorder()

	handler.Attempt(w, req, httprouter.Params{})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}
	code, message := decodeError(t, w)
	if code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, code)
	}
	if message == "" {
		t.Error("conflict response must carry an actionable message")
	}
}

func TestAttempt_MalformedBody(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{
		attemptFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			t.Fatal("service must not be called for a malformed body")
			return nil, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Attempt(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestAttempt_CreatedOnCommit(t *testing.T) {
	var received *model.BookingRequest
	handler := NewBookingHandler(&mockBookingService{
		attemptFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			received = req
			return &model.Booking{
				ID:     "652f8aab9d2f4b1a3c9e77bb",
				LaneID: req.LaneID,
				Date:   req.Date,
				Status: model.StatusBooked,
			}, nil
		},
	}, testLogger())

	payload := `{"lane_id":"652f8aab9d2f4b1a3c9e77aa","date":"2026-09-01","start":"10:00","duration_min":60,"requester_id":"member-42"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(payload))
	w := httptest.NewRecorder()

	handler.Attempt(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if received == nil || received.DurationMin != 60 || received.Start != "10:00" {
		t.Errorf("decoded request = %+v, want duration 60 start 10:00", received)
	}

	var body struct {
		Data model.Booking `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Status != model.StatusBooked {
		t.Errorf("expected status %s, got %s", model.StatusBooked, body.Data.Status)
	}
}

func TestQuery_RequiresDate(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{
		queryFunc: func(ctx context.Context, date string, laneID string) ([]*model.Booking, error) {
			t.Fatal("service must not be called without a date")
			return nil, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	w := httptest.NewRecorder()

	handler.Query(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestQuery_PassesOptionalLaneFilter(t *testing.T) {
	var gotDate, gotLane string
	handler := NewBookingHandler(&mockBookingService{
		queryFunc: func(ctx context.Context, date string, laneID string) ([]*model.Booking, error) {
			gotDate, gotLane = date, laneID
			return []*model.Booking{}, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?date=2026-09-01&lane_id=652f8aab9d2f4b1a3c9e77aa", nil)
	w := httptest.NewRecorder()

	handler.Query(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if gotDate != "2026-09-01" || gotLane != "652f8aab9d2f4b1a3c9e77aa" {
		t.Errorf("service received date=%s lane=%s", gotDate, gotLane)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/652f8aab9d2f4b1a3c9e77bb", nil)
	w := httptest.NewRecorder()

	handler.GetByID(w, req, httprouter.Params{{Key: "id", Value: "652f8aab9d2f4b1a3c9e77bb"}})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if code, _ := decodeError(t, w); code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, code)
	}
}
