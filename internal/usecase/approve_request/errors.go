package approve_request

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("approve_request: booking request not found")

	// ErrAlreadyHandled возвращается, когда заявка уже не в статусе pending
	ErrAlreadyHandled = errors.New("approve_request: booking request already handled")

	// ErrConflict возвращается в строгом режиме, если интервал заявки пересекается с записью
	ErrConflict = errors.New("approve_request: requested time overlaps another appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("approve_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("approve_request: internal error")
)
