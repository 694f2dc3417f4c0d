// Package logging configures the log/slog loggers used across xmlbridge.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel(cfg.LogLevel),
//	    Format: logging.ParseFormat(cfg.LogFormat),
//	})
//	logger.Info("listening", "addr", addr)
//
// Components accept a *slog.Logger and fall back to Nop when none is given.
package logging
