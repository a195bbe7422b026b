// Package http serves the bot over HTTP with chi: chats post messages and
// collect replies from an outbox, and operators can inspect sessions, the
// last exported search, the conversation graph and Prometheus metrics.
package http
