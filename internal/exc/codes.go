package exc

const (
	CodeUnknownFatal     = "M0000"
	CodeFileNotFound     = "M0001"
	CodePermissionDenied = "M0003"
	CodeReadFailure      = "M0005"
	CodeInvalidJSON      = "M0006"
	CodeUnsupportedValue = "M0007"
	CodeUnknownOperation = "M0008"
	CodeDuplicateInput   = "M0009"
)

var (
	defaultNonFatal = map[string]bool{}
)
