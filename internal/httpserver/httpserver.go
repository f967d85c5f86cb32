package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Run starts the HTTP server and all background services, then blocks until ctx is done.
//  1. Map HTTP handlers and routes
//  2. Start the notification router, the Redis subscriber and the expiration sweeper
//  3. Serve HTTP
//  4. On ctx cancellation, shut everything down in reverse dependency order
func (srv *HTTPServer) Run(ctx context.Context) error {
	if err := srv.mapHandlers(); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.Run.mapHandlers: %v", err)
		return err
	}

	if err := srv.startServices(ctx); err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", srv.host, srv.port),
		Handler: srv.gin,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	srv.l.Infof(ctx, "HTTP server started on %s", httpSrv.Addr)

	var runErr error
	select {
	case <-ctx.Done():
		srv.l.Info(ctx, "Shutting down gracefully...")
	case runErr = <-errCh:
		srv.l.Errorf(ctx, "internal.httpserver.Run.ListenAndServe: %v", runErr)
	}

	srv.shutdown(httpSrv)
	return runErr
}

// startServices starts the background workers. If the Redis subscriber cannot
// subscribe, the router already running is stopped before returning.
func (srv *HTTPServer) startServices(ctx context.Context) error {
	srv.services.router.Start()
	if srv.services.subscriber != nil {
		if err := srv.services.subscriber.Start(ctx); err != nil {
			srv.l.Errorf(ctx, "internal.httpserver.Run.subscriber.Start: %v", err)
			srv.stopRouter()
			return err
		}
		srv.l.Info(ctx, "Redis fanout subscriber started")
	}
	srv.services.sweeper.Start()
	return nil
}

func (srv *HTTPServer) stopRouter() {
	ctx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
	defer cancel()
	if err := srv.services.router.Shutdown(ctx); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.stopRouter: %v", err)
	}
}

// shutdown stops intake first, then lets queued events reach sessions before closing them.
func (srv *HTTPServer) shutdown(httpSrv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.shutdown.http: %v", err)
	}
	if err := srv.services.sweeper.Shutdown(ctx); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.shutdown.sweeper: %v", err)
	}
	if err := srv.services.router.Shutdown(ctx); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.shutdown.router: %v", err)
	}
	if srv.services.subscriber != nil {
		if err := srv.services.subscriber.Shutdown(ctx); err != nil {
			srv.l.Errorf(ctx, "internal.httpserver.shutdown.subscriber: %v", err)
		}
	}
	if err := srv.services.wsUC.Shutdown(ctx); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.shutdown.websocket: %v", err)
	}

	srv.l.Info(ctx, "Server stopped")
}
