// Package logger provides slog attribute helpers shared by the router, the
// web adapter and the bundled middleware.
//
// Helpers return an empty slog.Attr for nil errors and empty identifiers, and
// slog drops empty attributes, so they can be passed unconditionally:
//
//	log.Info("request handled",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Pattern(pattern),
//		logger.StatusCode(status),
//		logger.Duration(time.Since(start)),
//		logger.Error(err),
//	)
//
// Commit diagnostics use Count for node and route totals:
//
//	log.Debug("trie committed",
//		logger.Method("GET"),
//		logger.Count("nodes", 12),
//		logger.Count("routes", 5),
//	)
package logger
