// Package server runs an http.Handler, typically the adapter returned by
// web.Handler for a committed router, with graceful shutdown and
// production timeouts.
//
// The listener is bound inside Start, so a server created with
// "127.0.0.1:0" reports its real address through Addr once running.
//
// # Usage
//
//	b := router.New[*web.Context]()
//	b.Get("/health", handler.Endpoint(health.Liveness[*web.Context]))
//	rt := b.Commit()
//
//	srv := server.New(":8080",
//		server.WithLogger(logger),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, web.Handler(rt)))
//	if err := g.Wait(); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration
//
// Config reads SERVER_ADDR, SERVER_READ_TIMEOUT, SERVER_WRITE_TIMEOUT,
// SERVER_IDLE_TIMEOUT, SERVER_SHUTDOWN_TIMEOUT, SERVER_MAX_HEADER_BYTES,
// SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE:
//
//	var cfg server.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(logger))
//
// Server is safe for concurrent use. Start on a running server returns
// ErrServerAlreadyRunning; Stop on a stopped server is a no-op.
package server
