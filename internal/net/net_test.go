package net

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"LocalNotes/internal/state"
)

func startHost(t *testing.T) (*Host, string) {
	t.Helper()
	host := NewHost(nil, nil)
	srv := httptest.NewServer(host.Handler())
	t.Cleanup(srv.Close)
	return host, strings.TrimPrefix(srv.URL, "http://")
}

func waitUpdate(t *testing.T, updates <-chan Update) Update {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for an update")
		return Update{}
	}
}

func TestViewerReceivesCurrentAndNewDocuments(t *testing.T) {
	host, addr := startHost(t)
	b := state.New()
	b.OnChange(host.Publish)
	b.PointerDown(0, 0)
	b.PointerMove(5, 5)
	b.PointerUp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := make(chan Update, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- Join(ctx, addr, nil, func(u Update) { updates <- u })
	}()

	first := waitUpdate(t, updates)
	if first.Revision != b.Revision() {
		t.Fatalf("first update revision = %d, want %d", first.Revision, b.Revision())
	}
	if !first.Pages.Equal(b.Document()) {
		t.Fatalf("first update does not match the board")
	}
	if first.Host != host.ID() {
		t.Fatalf("update host = %q, want %q", first.Host, host.ID())
	}

	b.AppendPage()
	var got Update
	for got.Pages.Len() != 2 {
		got = waitUpdate(t, updates)
	}
	if got.Revision != b.Revision() {
		t.Fatalf("latest update revision = %d, want %d", got.Revision, b.Revision())
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Join() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Join() did not return after cancel")
	}
}

func TestPublishIgnoresStaleRevisions(t *testing.T) {
	host := NewHost(nil, nil)
	b := state.New()
	b.AppendPage()
	newer := b.Snapshot()

	host.Publish(newer)
	host.Publish(state.Snapshot{Pages: state.NewPages(), Revision: newer.Revision - 1})

	u, err := decodeUpdate(host.latest)
	if err != nil {
		t.Fatalf("decodeUpdate() error = %v", err)
	}
	if u.Revision != newer.Revision || u.Pages.Len() != 2 {
		t.Fatalf("stale snapshot replaced the latest one: revision %d, %d pages", u.Revision, u.Pages.Len())
	}
}

func TestPeerOfferCoalesces(t *testing.T) {
	p := newPeer("p", nil)
	if p.offer([]byte("a")) {
		t.Fatalf("first offer reported a dropped frame")
	}
	if !p.offer([]byte("b")) {
		t.Fatalf("second offer did not report the dropped frame")
	}
	if got := string(p.take()); got != "b" {
		t.Fatalf("take() = %q, want %q", got, "b")
	}
	if p.take() != nil {
		t.Fatalf("expected no pending frame")
	}
}

func TestParseLink(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localnotes://192.168.1.20:8888", want: "192.168.1.20:8888"},
		{in: "localnotes://192.168.1.20:8888/", want: "192.168.1.20:8888"},
		{in: "10.0.0.1:9000", want: "10.0.0.1:9000"},
		{in: "localnotes://nohost", wantErr: true},
		{in: "localnotes://:8888", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLink(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLink(%q) error = nil", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLink(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLink(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	link := ShareLink("192.168.1.20", 8888)
	if !IsLink(link) {
		t.Fatalf("IsLink(%q) = false", link)
	}
	if got, _ := ParseLink(link); got != "192.168.1.20:8888" {
		t.Fatalf("ParseLink(ShareLink()) = %q", got)
	}
}
