package notifications

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifications: internal error")

	// ErrConnect не удалось подключиться к брокеру
	ErrConnect = errors.New("notifications: failed to connect to broker")

	// ErrPublish брокер не принял сообщение
	ErrPublish = errors.New("notifications: failed to publish message")

	// ErrInvalidResponse возвращается при некорректном ответе webhook
	ErrInvalidResponse = errors.New("notifications: invalid webhook response")
)
