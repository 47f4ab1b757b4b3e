package fixtures

import (
	command "github.com/goliatone/go-command"
)

// RecordingRegistry records the handlers passed to RegisterCommand.
type RecordingRegistry struct {
	Handlers []any
}

func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: make([]any, 0)}
}

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration is one recorded cron wiring.
type CronRegistration struct {
	Config  command.HandlerConfig
	Handler any
}

// CronRecorder records cron registrations and can be told to fail.
type CronRecorder struct {
	Registrations []CronRegistration
	err           error
}

func NewCronRecorder() *CronRecorder {
	return &CronRecorder{Registrations: make([]CronRegistration, 0)}
}

// Fail makes every later registration return err.
func (c *CronRecorder) Fail(err error) {
	c.err = err
}

// Registrar returns a registration function that records its arguments.
func (c *CronRecorder) Registrar() func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		c.Registrations = append(c.Registrations, CronRegistration{Config: cfg, Handler: handler})
		return nil
	}
}
