package publishers

import "context"

// logPublisher writes events to the application log, useful as a local sink
// when no broker is configured.
type logPublisher struct {
	id  string
	typ string
	log Logger
}

func newLogPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	return &logPublisher{
		id:  cfg.ID,
		typ: TypeLog,
		log: ensureLogger(log),
	}, nil
}

func (l *logPublisher) ID() string   { return l.id }
func (l *logPublisher) Type() string { return l.typ }

func (l *logPublisher) Publish(_ context.Context, evt Event) error {
	l.log.InfoObj("new project observed", "project_event", evt)
	return nil
}
