// Package server exposes the reupload pipeline over HTTP for the Studio plugin.
//
// The surface is intentionally small: a liveness probe plus single and batch
// reupload endpoints that mirror the CLI's behavior. Routing goes through the
// [Router] interface so middleware (request logging, panic recovery) composes
// the same way for every handler.
//
// The server binds to localhost by default; it holds live platform
// credentials, so exposing it beyond the local machine is the deployer's
// decision, not the default.
package server
