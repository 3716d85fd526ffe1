package fsm

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for event and transition logging.
func WithLogger(logger Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}
