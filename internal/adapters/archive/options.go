// Package archive persists fetched milpacs profiles as JSON documents.
package archive

import "github.com/cavops/muster/pkg/logger"

// Option applies a configuration option to the Archive.
type Option func(*Archive)

// WithLogger sets a custom logger for the archive.
func WithLogger(l logger.Logger) Option {
	return func(a *Archive) {
		if l != nil {
			a.logger = l
		}
	}
}
