package models

// NoticeKind tells the host how to present a Notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a short user-facing message raised by a controller.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

// SuccessNotice returns a Notice titled "Success".
func SuccessNotice(message string) Notice {
	return Notice{Kind: NoticeSuccess, Title: "Success", Message: message}
}

// ErrorNotice returns a Notice titled "Error".
func ErrorNotice(message string) Notice {
	return Notice{Kind: NoticeError, Title: "Error", Message: message}
}
