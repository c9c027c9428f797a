package events

import "errors"

var (
	// ErrMarshal возвращается, когда событие не удалось сериализовать
	ErrMarshal = errors.New("events.publisher: failed to marshal event")

	// ErrWrite возвращается, когда событие не удалось записать в kafka
	ErrWrite = errors.New("events.publisher: failed to write event")
)
