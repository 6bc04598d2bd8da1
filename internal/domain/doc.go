// Package domain contains the core entities of the image restyling
// service: the generation task and its lifecycle states, the progress
// snapshot exposed to consumers, and the style preset catalogue.
//
// The package has no dependencies on transport, storage, or the external
// provider; those layers depend on domain, never the other way around.
package domain
