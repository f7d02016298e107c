package log

// Package log provides a very small opinionated wrapper around Go's standard
// library logging facilities. It offers a consistent way to emit logs per
// tubelens component while keeping the surface minimal.
//
// Key Features
//
//   - Per component loggers via For(name)
//   - Automatic prefix in every line: `[name]`  (example: `[api] search handled`)
//   - Convenience level helpers: Infof, Warnf, Errorf, Debugf
//   - Debug logging can be enabled globally (SetGlobalDebug) or per component
//     (EnableDebugFor / DisableDebugFor)
//   - Uses the standard library *log.Logger* under the hood (no external deps)
//   - Central output writer (SetOutput) that updates existing loggers
//
// Non-Goals
//
//   - Structured / JSON logging
//   - Log sampling, rotation, or asynchronous buffering
//
// Basic Usage
//
//	l := log.For("youtube")
//	l.Infof("fetched %d videos", n)
//	l.Debugf("raw response: %s", body) // only prints if debug enabled
//
// NOTE: The package name intentionally collides with stdlib "log". When
// importing this package alongside the standard library, alias one of them.
