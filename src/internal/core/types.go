package core

// Level is the severity vocabulary shared by the log interceptor, the crash
// reporter, and shipped log records.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "Debug"
	case LevelInfo:
		return "Info"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	case LevelFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Record is one buffered log record, field name to value. Enrichment attaches
// the fixed Environment/Application/Version fields at insertion time.
type Record map[string]string
