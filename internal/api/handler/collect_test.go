package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contentclicks/dashboard/internal/backend"
	"github.com/contentclicks/dashboard/internal/logger"
	"github.com/contentclicks/dashboard/internal/service"
	"github.com/gin-gonic/gin"
)

type immediateClock struct{}

func (immediateClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// collectorStub fakes the collector backend's JSON API for handler tests.
func collectorStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customers/cust-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"customer":{"id":"cust-1","name":"Acme","industry":"retail"}}`)
	})
	mux.HandleFunc("/api/customers/cust-1/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"metrics":{"email":{"engagement":{"kpi_name":"Open Rate","kpi_value":45.6,"benchmark_value":40,"time_period_days":30}}}}`)
	})
	mux.HandleFunc("/api/customers/cust-1/top-performers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"top_performers":[]}`)
	})
	mux.HandleFunc("/api/customers/cust-1/collect", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true}`)
	})
	mux.HandleFunc("/api/customers/cust-1/collect/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"status":{"status":"completed","completed":true,"message":"All data collection complete"}}`)
	})
	return httptest.NewServer(mux)
}

func testLog() *logger.Logger {
	return logger.New(&logger.Config{Level: "error", Format: "text", Output: io.Discard})
}

func setupCollectRouter(t *testing.T, backendURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := backend.NewClient(&backend.Config{BaseURL: backendURL})
	views := service.NewViewStore()
	syncService := service.NewSyncService(client, views, nil, testLog(), nil)
	poller := service.NewPoller(client, syncService, syncService, testLog(), &service.PollerConfig{
		Interval:    time.Millisecond,
		SettleDelay: time.Millisecond,
		Clock:       immediateClock{},
	})

	collectHandler := NewCollectHandler(client, poller, 30)
	viewHandler := NewViewHandler(syncService)

	r := gin.New()
	r.POST("/api/v1/customers/:id/collect", collectHandler.StartCollection)
	r.DELETE("/api/v1/customers/:id/collect", collectHandler.CancelCollection)
	r.GET("/api/v1/customers/:id/view", viewHandler.GetView)
	r.POST("/api/v1/customers/:id/view/refresh", viewHandler.RefreshView)
	return r
}

func TestStartCollectionAccepted(t *testing.T) {
	stub := collectorStub(t)
	defer stub.Close()
	r := setupCollectRouter(t, stub.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/cust-1/collect",
		strings.NewReader(`{"days":30}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.SessionID == "" {
		t.Errorf("Expected a session_id in the response, got %s", w.Body.String())
	}
}

func TestStartCollectionEmptyBodyUsesDefaults(t *testing.T) {
	stub := collectorStub(t)
	defer stub.Close()
	r := setupCollectRouter(t, stub.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/cust-1/collect", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202 for empty body, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCancelCollectionWithoutSession(t *testing.T) {
	stub := collectorStub(t)
	defer stub.Close()
	r := setupCollectRouter(t, stub.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/customers/cust-1/collect", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 with no running session, got %d", w.Code)
	}
}

func TestGetViewAfterRefresh(t *testing.T) {
	stub := collectorStub(t)
	defer stub.Close()
	r := setupCollectRouter(t, stub.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/cust-1/view/refresh", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Refresh failed: %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/customers/cust-1/view", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		View struct {
			Customer struct {
				Name string `json:"name"`
			} `json:"customer"`
			Cards []json.RawMessage `json:"cards"`
		} `json:"view"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.View.Customer.Name != "Acme" || len(resp.View.Cards) != 1 {
		t.Errorf("Unexpected view payload: %s", w.Body.String())
	}
}

func TestGetViewUnknownCustomer(t *testing.T) {
	stub := collectorStub(t)
	defer stub.Close()
	r := setupCollectRouter(t, stub.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/nobody/view", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unsynchronized customer, got %d", w.Code)
	}
}
