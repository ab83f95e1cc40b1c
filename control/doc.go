// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics, logging setup and debug introspection for
// the reader.
//
// Provides:
//   - Config loading from file, environment and defaults (viper), decoded
//     with mapstructure and checked with struct-tag validation
//   - A concurrent-safe metrics registry with counters
//   - zerolog logger construction from LoggingConfig
//   - Debug probe registration and state export
package control
