// Package jobs runs the asynchronous acquisition pipeline: three chained
// FIFO queues, snap → segment → build, each drained by exactly one
// dedicated worker goroutine.
//
// Enqueueing never blocks and returns the current queue depth; the queues
// are unbounded, which is an accepted growth risk in exchange for callers
// never stalling. A completed snap becomes a segment job, a completed
// segment becomes a build job, and build output (or any stage's failure)
// lands in a shared outcome accumulator. WaitUntilDone blocks until every
// enqueued job, including work generated by earlier stages, has reached a
// terminal state, then atomically drains and returns the accumulator.
//
// Jobs run to completion; there is no mid-job cancellation. Shutdown via
// the fx lifecycle stops intake and joins the three workers.
package jobs
