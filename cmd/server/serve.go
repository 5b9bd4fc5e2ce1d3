package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// serve runs srv on ln until ctx is done. It returns only after Shutdown has
// drained in-flight requests, so callers may release what handlers use.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logx.Errorf("shutdown error: %v", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
