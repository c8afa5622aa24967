// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package logging provides centralized zerolog-based structured logging for
// the content resolver CLI.
//
// This package implements a single logging layer using zerolog: console
// output by default for interactive use, JSON output on request for
// cron/unattended invocations.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - Console output by default, JSON output when LOG_FORMAT=json
//   - Global logger configuration via environment variables
//   - Context-aware logging with correlation ID propagation, used to
//     correlate log lines from a single scan/resolve run
//
// # Quick Start
//
//	import "github.com/metabrainz/listenbrainz-content-resolver/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Caller: false,
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("path", path).Msg("scan started")
//	logging.Error().Err(err).Str("file", path).Msg("tag read failed")
//
//	// Context-aware logging (correlates every line of one run)
//	logging.Ctx(ctx).Info().Int("scanned", n).Msg("scan finished")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: console)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Log Levels
//
// Supported log levels (from most to least verbose):
//
//	trace  - Very detailed diagnostic information
//	debug  - Detailed diagnostic information
//	info   - General operational information (default)
//	warn   - Recoverable per-item failures (a file's tags couldn't be read,
//	         a metadata batch returned an error) — the run continues
//	error  - Error conditions requiring attention
//	fatal  - Fatal errors that terminate the program
//	panic  - Panic conditions that crash the program
//
// # Component Loggers
//
// Create component-specific loggers with a default field:
//
//	scanLogger := logging.With().Str("component", "scanner").Logger()
//	scanLogger.Info().Msg("scan started")
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
package logging
