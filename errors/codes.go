package errors

// ErrorCode identifies an application error category in API responses.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005

	// Episode / transcript
	ErrorCode_EPISODE_NOT_FOUND     ErrorCode = 2000
	ErrorCode_EPISODE_AUDIO_MISSING ErrorCode = 2001
	ErrorCode_TRANSCRIPT_NOT_FOUND  ErrorCode = 2002
	ErrorCode_TRANSCRIPT_TOO_SHORT  ErrorCode = 2003

	// Content generation
	ErrorCode_GENERATION_FAILED    ErrorCode = 3000
	ErrorCode_MISSING_TIMING       ErrorCode = 3001
	ErrorCode_CONTENT_NOT_READY    ErrorCode = 3002
	ErrorCode_TRANSCRIPTION_FAILED ErrorCode = 3003

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 4000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 4001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 4002

	// Database
	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 5000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 5001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_EPISODE_NOT_FOUND:               "EPISODE_NOT_FOUND",
	ErrorCode_EPISODE_AUDIO_MISSING:           "EPISODE_AUDIO_MISSING",
	ErrorCode_TRANSCRIPT_NOT_FOUND:            "TRANSCRIPT_NOT_FOUND",
	ErrorCode_TRANSCRIPT_TOO_SHORT:            "TRANSCRIPT_TOO_SHORT",
	ErrorCode_GENERATION_FAILED:               "GENERATION_FAILED",
	ErrorCode_MISSING_TIMING:                  "MISSING_TIMING",
	ErrorCode_CONTENT_NOT_READY:               "CONTENT_NOT_READY",
	ErrorCode_TRANSCRIPTION_FAILED:            "TRANSCRIPTION_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
