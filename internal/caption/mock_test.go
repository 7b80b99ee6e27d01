package caption_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/five82/narrator/internal/caption"
	"github.com/five82/narrator/internal/mockcaption"
)

func TestClient_AgainstMockService(t *testing.T) {
	t.Parallel()

	fake := mockcaption.New(mockcaption.Options{Caption: "a red apple"})
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	c, err := caption.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	got, err := c.Caption(context.Background(), caption.Upload{Data: []byte("jpeg")})
	if err != nil {
		t.Fatalf("Caption returned error: %v", err)
	}
	if got != "a red apple" {
		t.Fatalf("Caption = %q, want %q", got, "a red apple")
	}
	if fake.Requests() != 1 {
		t.Fatalf("Requests() = %d, want 1", fake.Requests())
	}
}

func TestClient_MockServiceFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(mockcaption.New(mockcaption.Options{Status: http.StatusBadGateway}))
	t.Cleanup(server.Close)

	c, err := caption.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Caption(context.Background(), caption.Upload{Data: []byte("jpeg")})
	var statusErr *caption.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusBadGateway {
		t.Fatalf("Caption error = %v, want status 502", err)
	}
}
