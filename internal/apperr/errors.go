// Package apperr содержит сигнальные ошибки доменного уровня.
// Хендлеры сопоставляют их с HTTP-статусами через errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound - запрошенная сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken - конфликт уникальности имени пользователя.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials - неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid - токен не прошел проверку или отозван.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrProviderDisabled - провайдер сообщений не сконфигурирован.
	ErrProviderDisabled = errors.New("message provider is not configured")
)
