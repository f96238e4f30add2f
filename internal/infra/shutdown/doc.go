// Package shutdown coordinates graceful process termination.
//
// A Handler collects named hooks (listeners, watchers, log flushers) and
// runs them in reverse registration order once a termination signal
// arrives, Trigger is called, or the parent context ends. All hooks share
// a single deadline.
package shutdown
