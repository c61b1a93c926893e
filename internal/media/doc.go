// Package media defines capability interfaces over a platform media stack:
// permission queries, stream acquisition, and track lifecycle.
//
// Nothing here binds to concrete hardware. The daemon and tests inject
// implementations, which keeps permission negotiation and the camera session
// controller testable without devices. Streams are scoped resources: every
// successful acquisition must be paired with a release on all exit paths,
// which ReleaseStream makes convenient.
package media
