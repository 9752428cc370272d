package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendPayload(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type %s", ct)
		}
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &got); err != nil {
			t.Errorf("body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewEmailClient(srv.URL, "service_icaru", "template_icaru", "pk_123")
	err := c.Send(context.Background(), map[string]string{"order_number": "ICARU-1"})
	if err != nil {
		t.Fatal(err)
	}
	if got.ServiceID != "service_icaru" || got.TemplateID != "template_icaru" || got.UserID != "pk_123" {
		t.Fatalf("payload ids: %+v", got)
	}
	if got.TemplateParams["order_number"] != "ICARU-1" {
		t.Fatalf("params: %+v", got.TemplateParams)
	}
}

func TestSendRejectionSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("The service is blocked"))
	}))
	defer srv.Close()

	c := NewEmailClient(srv.URL, "s", "t", "")
	err := c.Send(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "The service is blocked") {
		t.Fatalf("provider text not surfaced: %v", err)
	}
}

func TestSendUnreachable(t *testing.T) {
	c := NewEmailClient("http://127.0.0.1:1/send", "s", "t", "")
	if err := c.Send(context.Background(), nil); err == nil {
		t.Fatal("want transport error")
	}
}
