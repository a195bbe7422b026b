/*
Package domain contains the core domain models of the ticket-search assistant.

It defines the conversation graph (Nodes and Transitions), the per-chat
execution State, the SearchRequest the conversation accumulates, and the
ActionRequests handed to the host. This package is kept pure and free of
external dependencies like I/O or persistence.

# Key Entities

  - Node: One conversation step (question, text, or search).
  - Transition: Defines the rules for moving from one step to another.
  - State: Captures the runtime snapshot of a chat (Current Step, Answers, History).
  - SearchRequest: The typed request, also the last-request snapshot format.
  - Message: An inbound chat message, transport independent.
*/
package domain
