// Package server runs the transport servers of the sync client.
//
// Currently this is the local HTTP control API. The server is started with a
// context and shut down gracefully when that context is done.
package server
