package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"myhouse/internal/models"
	"myhouse/internal/service"
)

func TestHistoryHandler_ListAndValidation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	logs := &mockEventLog{resp: []models.RecordedEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventLight, Value: "true"},
		{EventID: "e2", OccurredAt: now.Add(time.Second), Type: models.EventLight, Value: "false"},
	}}
	r := newTestRouter(&service.Service{EventLog: logs})

	if w := doRequest(r, http.MethodGet, "/api/v1/history?from=notatime", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/v1/history?to=31/08/2025", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'to', got %d", w.Code)
	}
	if logs.calls != 0 {
		t.Fatal("service called for an unparsable range")
	}

	q := "/api/v1/history?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=light"
	w := doRequest(r, http.MethodGet, q, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                    `json:"count"`
		Events []models.RecordedEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastType != "LIGHT" || !logs.lastFrom.Equal(now) {
		t.Fatalf("filter = %v %q", logs.lastFrom, logs.lastType)
	}
}

func TestHistoryHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	logs := &mockEventLog{}
	r := newTestRouter(&service.Service{EventLog: logs})

	if w := doRequest(r, http.MethodGet, "/api/v1/history?from=2025-08-01&to=2025-08-31", nil); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	wantFrom := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC)
	if !logs.lastFrom.Equal(wantFrom) || !logs.lastTo.Equal(wantTo) {
		t.Fatalf("range = [%v, %v]", logs.lastFrom, logs.lastTo)
	}

	if w := doRequest(r, http.MethodGet, "/api/v1/history?to=2025-08-31%2012:00:00", nil); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if want := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC); !logs.lastTo.Equal(want) {
		t.Fatalf("to = %v, want %v", logs.lastTo, want)
	}
}

func TestHistoryHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrInvalidTimeRange, http.StatusBadRequest},
		{service.ErrInvalidEventType, http.StatusBadRequest},
		{errors.New("db locked"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := newTestRouter(&service.Service{EventLog: &mockEventLog{err: tc.err}})
		if w := doRequest(r, http.MethodGet, "/api/v1/history", nil); w.Code != tc.code {
			t.Errorf("%v: code = %d, want %d", tc.err, w.Code, tc.code)
		}
	}
}

func TestParseQueryTime(t *testing.T) {
	for _, s := range []string{"2025-08-27T15:04:05Z", "2025-08-27T17:04:05+02:00", "2025-08-27 15:04:05"} {
		got, err := parseQueryTime(s)
		if err != nil {
			t.Fatalf("parseQueryTime(%q): %v", s, err)
		}
		if want := time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC); !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("parseQueryTime(%q) = %v", s, got)
		}
	}
	if _, err := parseQueryTime("yesterday"); err == nil {
		t.Fatal("expected error")
	}
}
