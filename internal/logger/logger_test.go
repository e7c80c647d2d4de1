package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tt := []struct {
		name      string
		logLevel  string
		logFormat string

		expectedError error
	}{
		{
			name:      "text INFO",
			logLevel:  "INFO",
			logFormat: "text",
		},
		{
			name:      "json DEBUG",
			logLevel:  "DEBUG",
			logFormat: "json",
		},
		{
			name:      "lowercase level accepted",
			logLevel:  "debug",
			logFormat: "json",
		},
		{
			name:      "tint WARN",
			logLevel:  "WARN",
			logFormat: "tint",
		},
		{
			name:      "invalid level",
			logLevel:  "TRACE",
			logFormat: "text",

			expectedError: ErrLoggerInvalidLogLevel,
		},
		{
			name:      "invalid format",
			logLevel:  "INFO",
			logFormat: "xml",

			expectedError: ErrLoggerInvalidLogFormat,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := NewLogger(tc.logLevel, tc.logFormat)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}
