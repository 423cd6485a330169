// Package fastagi implements a FastAGI (Asterisk Gateway Interface over TCP)
// server framework: a streaming wire parser, a typed command/response engine,
// a path-pattern router with middleware composition, and the per-connection
// session orchestrator that ties them together.
//
// Asterisk opens one TCP connection per call that reaches a FastAGI dialplan
// entry. This package reads the initial handshake and variable dump off that
// connection, routes the request's URL to a registered Handler, and lets the
// handler drive the call by issuing typed AGI commands through a Connection.
package fastagi
