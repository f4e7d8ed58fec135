package net

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gorilla/websocket"
)

// Join connects to the share host at addr (host:port) and calls onUpdate
// for every document revision newer than the last one seen. It returns
// when ctx is cancelled or the connection drops.
func Join(ctx context.Context, addr string, logger *slog.Logger, onUpdate func(Update)) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL(addr), nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()
	logger.Info("connected to share host", "addr", addr)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var (
		seen bool
		last uint64
	)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("disconnected from host: %w", err)
		}
		u, err := decodeUpdate(data)
		if err != nil {
			logger.Warn("ignoring bad update", "error", err)
			continue
		}
		if seen && u.Revision <= last {
			continue
		}
		seen, last = true, u.Revision
		onUpdate(u)
	}
}
