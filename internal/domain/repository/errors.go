package repository

import "errors"

// Ошибки хранилища, различаемые движком распространения:
// ErrNotFound фатальна для одиночной операции, ErrValidation только для одного
// элемента пакета, но не для пакета в целом
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("record rejected by store validation")
)
