package extract

import "github.com/cavops/muster/internal/domain/unit"

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithParser sets a custom unit designator parser, e.g. one with a
// mismatch hook installed.
func WithParser(p *unit.Parser) Option {
	return func(e *Extractor) {
		if p != nil {
			e.parser = p
		}
	}
}
