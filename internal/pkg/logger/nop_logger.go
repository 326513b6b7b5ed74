package logger

// NopLogger discards everything. Used in tests and as a safe default.
type NopLogger struct{}

func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (l *NopLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *NopLogger) Info(module, message string, details map[string]interface{})  {}
func (l *NopLogger) Warn(module, message string, details map[string]interface{})  {}
func (l *NopLogger) Error(module, message string, details map[string]interface{}) {}
func (l *NopLogger) Sync() error                                                  { return nil }

func (l *NopLogger) GetLogs(level string, limit, offset int) ([]LogEntry, error) {
	return []LogEntry{}, nil
}

func (l *NopLogger) GetLogById(id string) (*LogEntry, error) {
	return nil, nil
}
