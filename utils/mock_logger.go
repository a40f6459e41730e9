package utils

import "github.com/stretchr/testify/mock"

// MockLogger records log calls for assertions in tests.
type MockLogger struct {
	mock.Mock
	WarnCallCount   int
	LastWarnMessage string
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.WarnCallCount++
	m.LastWarnMessage = msg
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level LogLevel) {
	m.Called(level)
}
