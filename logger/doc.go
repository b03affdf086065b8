// Package logger provides structured logging using zerolog.
//
// It supports JSON and console formats, level configuration, file output
// with size-based rotation, and component-scoped loggers with fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//	  output: "/var/log/reqkit/reqkit.log"
//	  max_size: 50
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Debug("request sent", logger.Fields(logger.FieldMethod, "GET"))
package logger
