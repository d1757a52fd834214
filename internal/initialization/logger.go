package initialization

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// QueueLogger routes backlite's log lines through zerolog. Params come as alternating keys and values.
type QueueLogger struct{}

func (QueueLogger) Info(message string, params ...any) {
	fields(log.Debug(), params).Str("component", "queue").Msg(message)
}

func (QueueLogger) Error(message string, params ...any) {
	fields(log.Error(), params).Str("component", "queue").Msg(message)
}

func fields(e *zerolog.Event, params []any) *zerolog.Event {
	for i := 0; i+1 < len(params); i += 2 {
		key, ok := params[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, params[i+1])
	}
	return e
}
