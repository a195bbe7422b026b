/*
Package session serialises access to each chat's conversation state.

A chat's messages are processed one at a time: the Manager holds a
reference-counted mutex per chat and, when several bot replicas share a
store, an optional distributed lock.
*/
package session
