package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 0)
}

func TestFetchTenant(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != GetTenantPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch req["websiteName"] {
		case "acme":
			_, _ = io.WriteString(w, `{"username":"acme","websiteName":"acme","pages":{"homepage":[{"id":"h1","type":"hero","componentName":"hero1"}]}}`)
		case "empty":
		case "gone":
			w.WriteHeader(http.StatusNotFound)
		case "nocontent":
			w.WriteHeader(http.StatusNoContent)
		case "garbage":
			_, _ = io.WriteString(w, `<html>oops</html>`)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"message":"upstream down"}`)
		}
	})
	ctx := context.Background()

	doc, err := c.FetchTenant(ctx, "acme")
	if err != nil || doc == nil || doc.Pages["homepage"][0].ID != "h1" {
		t.Fatalf("FetchTenant(acme) = %+v, %v", doc, err)
	}

	doc, err = c.FetchTenant(ctx, "empty")
	if err != nil || doc != nil {
		t.Errorf("empty body = %+v, %v", doc, err)
	}

	for _, key := range []string{"gone", "nocontent"} {
		if _, err := c.FetchTenant(ctx, key); !errors.Is(err, model.ErrTenantNotFound) {
			t.Errorf("FetchTenant(%s) error = %v", key, err)
		}
	}

	if _, err := c.FetchTenant(ctx, "garbage"); !errors.Is(err, model.ErrMalformedDocument) {
		t.Errorf("garbage body error = %v", err)
	}

	_, err = c.FetchTenant(ctx, "other")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream down" {
		t.Errorf("server error = %v", err)
	}
}

func TestSavePages(t *testing.T) {
	var got model.SavePayload
	var auth string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		if got.WebsiteName == "reject" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"message":"Page limit reached"}`)
			return
		}
		if got.WebsiteName == "bare" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	p := model.SavePayload{
		Username:    "acme",
		WebsiteName: "acme",
		Pages:       map[string][]model.ComponentInstance{"homepage": {{ID: "h1"}}},
	}
	if err := c.SavePages(context.Background(), "tok", p); err != nil {
		t.Fatalf("SavePages() error = %v", err)
	}
	if auth != "Bearer tok" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Pages["homepage"][0].ID != "h1" {
		t.Errorf("server got %+v", got)
	}

	p.WebsiteName = "reject"
	err := c.SavePages(context.Background(), "tok", p)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Page limit reached" {
		t.Errorf("rejected save error = %v", err)
	}

	p.WebsiteName = "bare"
	err = c.SavePages(context.Background(), "tok", p)
	if !errors.As(err, &apiErr) || apiErr.Message != "" || apiErr.Status != 500 {
		t.Errorf("bare failure = %v", err)
	}
}
