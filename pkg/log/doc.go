// Package log is the project's small logging layer on top of the standard
// library logger.
//
// Every subsystem asks for a named logger once and keeps it:
//
//	l := log.ForService("editor")
//	l.Infof("hydrated %d pages", n)
//	l.Debugf("payload: %+v", p) // printed only when debug is on
//
// Lines are prefixed with the service name in brackets, e.g. "[editor]".
// Debug output can be switched on for everything (SetGlobalDebug) or for a
// handful of services (EnableDebugFor), which is what the [log] section of
// the configuration file drives. SetOutput redirects every logger, including
// the ones already handed out, which tests use to capture output.
//
// All functions are safe for concurrent use.
package log
