// Package logger builds the zap logger shared by the CLI and the HTTP server.
//
// Level and Format come from the LOG_LEVEL and LOG_FORMAT settings. The debug
// level uses zap's development preset; every other level uses the production
// preset. WithRayID copies the request RayID set by the rayid middleware onto
// the logger, and WithRun tags entries with an integrity run id.
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	logger.WithRayID(log, c).Error("Handler failed", zap.Error(err))
package logger
