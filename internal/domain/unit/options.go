package unit

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithMismatchHook installs a callback fired when a segment fails its own
// level's pattern but would match a different level. The positional parse
// still stands; the hook exists so callers can surface suspect designators
// instead of silently accepting a wrong-field match.
func WithMismatchHook(h MismatchHook) Option {
	return func(p *Parser) {
		p.hook = h
	}
}
