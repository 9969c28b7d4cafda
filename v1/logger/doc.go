// Package logger provides structured logging for the cytosearch backend.
//
// It wraps Uber's Zap logger with a small method surface (Info, Debug, Warn,
// Error, Fatal) that accepts an optional error plus free-form field maps, and
// stamps every entry with the process id and service name. An Fx module wires
// the logger into the application and flushes it on shutdown.
//
// Direct usage:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "cytosearch"})
//	log.Info("image processed", nil, map[string]interface{}{"cells": 412})
//
// Tests should use logger.NewNop() to keep output quiet.
package logger
