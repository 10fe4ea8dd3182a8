package util

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindOwnership
	KindUpstream
	KindAnswerCountMismatch
)

// AppError 带稳定错误码与 HTTP 状态的业务错误，由 HandleError 统一转换
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同类型同错误码即视为相同，便于 errors.Is 匹配包装后的错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

func NewValidationError(code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message, Status: http.StatusBadRequest}
}

func NewNotFoundError(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message, Status: http.StatusNotFound}
}

func NewOwnershipError(code, message string) *AppError {
	return &AppError{Kind: KindOwnership, Code: code, Message: message, Status: http.StatusForbidden}
}

func NewUpstreamError(code, message string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Code: code, Message: message, Status: http.StatusInternalServerError, Err: err}
}

// StoreError 将存储层错误包装为 ErrStoreUnavailable
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	return NewUpstreamError(ErrStoreUnavailable.Code, ErrStoreUnavailable.Message, err)
}

var (
	ErrStoreUnavailable    = NewUpstreamError("STORE_UNAVAILABLE", "record store unavailable", nil)
	ErrGenerationFailed    = NewUpstreamError("AI_SERVICE_ERROR", "Failed to generate AI response", nil)
	ErrStorageFailed       = NewUpstreamError("STORAGE_ERROR", "Failed to store file", nil)
	ErrAnswerCountMismatch = &AppError{Kind: KindAnswerCountMismatch, Code: "INVALID_ANSWERS", Message: "Number of answers does not match number of questions", Status: http.StatusBadRequest}

	ErrQuizNotFound     = NewNotFoundError("QUIZ_NOT_FOUND", "Quiz not found")
	ErrQuizAccessDenied = NewOwnershipError("ACCESS_DENIED", "Access denied: Quiz does not belong to student")
	ErrAccessDenied     = NewOwnershipError("ACCESS_DENIED", "Access denied: You can only access your own data")

	ErrMissingQuestion     = NewValidationError("MISSING_QUESTION", "Question is required")
	ErrMissingStudentID    = NewValidationError("MISSING_STUDENT_ID", "Student ID is required")
	ErrMissingQuizID       = NewValidationError("MISSING_QUIZ_ID", "Quiz ID is required")
	ErrMissingAnswers      = NewValidationError("MISSING_ANSWERS", "Answers array is required")
	ErrNoFile              = NewValidationError("NO_FILE", "No file uploaded")
	ErrNoDocuments         = NewValidationError("NO_DOCUMENTS", "No documents found. Please upload some materials first.")
	ErrNoTextContent       = NewValidationError("NO_TEXT_CONTENT", "No text content found in uploaded documents. Please upload documents with readable text.")
	ErrUnsupportedFileType = NewValidationError("UNSUPPORTED_FILE_TYPE", "Unsupported file type. Supported types: PDF, JPEG, PNG, GIF, WebP, TIFF, BMP")
	ErrFileTooLarge        = NewValidationError("FILE_TOO_LARGE", "File exceeds the maximum upload size")
)

// AsAppError 取出错误链中的 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
