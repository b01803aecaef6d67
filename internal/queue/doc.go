// Package queue serializes scene mutations onto the host's update goroutine.
//
// Request handlers run on arbitrary goroutines but the scene graph may only
// be touched from the host tick. Handlers therefore Enqueue a closure and
// Wait on the returned Future while the host calls DrainOne once per frame.
// Each mutation runs exactly once, or never if its waiter gave up before the
// host reached it or the queue was closed.
package queue
