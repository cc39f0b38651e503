package requests

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("requests: booking request not found")

	// ErrAlreadyHandled возвращается, когда заявка уже одобрена или отклонена
	ErrAlreadyHandled = errors.New("requests: booking request already handled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("requests: internal error")
)
