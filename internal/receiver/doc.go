// Package receiver runs the OSC/UDP capture receiver.
//
// A Worker binds one UDP socket and decodes "/visage" datagrams into the
// shared frame.Buffer from its own goroutine, independent of the consumer's
// frame loop. Each datagram must carry exactly 63 numeric arguments; anything
// else is dropped without touching the buffer. The last valid frame always
// remains available.
//
// # Lifecycle
//
// Worker status moves strictly IDLE → RUNNING → STOPPING → IDLE:
//   - Start binds synchronously. Bind failures are returned to the caller
//     and the status stays IDLE.
//   - Start while RUNNING is a no-op.
//   - Start while STOPPING is rejected with a WORKER_STOPPING error. Callers
//     that want to restart wait for IDLE first (Wait or Controller.Start).
//   - Stop is fire-and-forget. The receive loop re-checks the status after
//     every read attempt; reads time out after the poll interval, so the
//     loop observes the stop within one interval, closes the socket and
//     returns to IDLE.
//
// Controller owns the single active Worker and guarantees that at most one
// worker is bound to the configured address at a time.
package receiver
