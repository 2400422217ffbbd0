// Package http implements the local control API of the sync client.
//
// The API exposes the sync status, the pending action queue, the dead-letter
// log and the online-first note mutations over a chi router. Request tracing
// and access logging are handled by middleware in this package before the
// request reaches the service layer.
package http
