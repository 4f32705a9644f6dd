// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "errors"

// センチネルエラー - リソースが見つからない場合
var (
	ErrHabitNotFound = errors.New("habit not found")
)

// ValidationError はバリデーションエラーを表す型
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError はValidationErrorを生成するヘルパー関数
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// TransportError はストアとの通信に失敗したことを表す型
// Op には失敗した操作名が入ります。
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError はTransportErrorを生成するヘルパー関数
func NewTransportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}
