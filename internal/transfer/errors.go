package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
)

// TransientError — временная ошибка переноса (сеть, таймаут, I/O).
// Такие ошибки ретраятся согласно retry-политике источника.
type TransientError struct {
	Err error
}

// Error возвращает текст ошибки.
func (e *TransientError) Error() string {
	return fmt.Sprintf("transient transfer error: %v", e.Err)
}

// Unwrap возвращает исходную ошибку.
func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError — постоянная ошибка переноса. Не ретраится,
// job немедленно помечается FAILED.
type PermanentError struct {
	Err error
}

// Error возвращает текст ошибки.
func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent transfer error: %v", e.Err)
}

// Unwrap возвращает исходную ошибку.
func (e *PermanentError) Unwrap() error { return e.Err }

// Transient оборачивает ошибку как временную.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Permanent оборачивает ошибку как постоянную.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsTransient сообщает, можно ли ретраить ошибку.
//
// Временными считаются явно обёрнутые TransientError, а также
// стандартные сетевые/таймаут/I-O классы — эквивалент
// ConnectionError/TimeoutError/OSError у коннекторов.
// Всё остальное — permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}

	var permanent *PermanentError
	if errors.As(err, &permanent) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	return false
}
