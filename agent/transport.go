// Package agent is the client side of the hosted drafting agent. A Transport
// delivers one instruction message and returns the agent's answer as a loosely
// structured payload; turning that payload into a draft is the policy
// package's job.
package agent

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"
)

// DefaultAgentID identifies the hosted policy drafting agent.
const DefaultAgentID = "699409dfcb4f20e1f49e194e"

// Context carries the conversation context sent with each invocation. The
// agent keeps its own memory per SessionID, which is what lets a revision
// refer to "the previously generated policy".
type Context struct {
	SessionID string
}

// Result is the outcome of one round trip. When Success is false, Error may
// hold the agent's reason. Response is the raw payload and may have any shape.
type Result struct {
	Success  bool
	Response *structpb.Value
	Error    string
}

// Transport sends an instruction message to an agent. A returned error means
// no answer came back: the context ended, the gateway could not be reached or
// the request could not be built. A gateway that answered with a failure,
// including an RPC error status, yields a Result with Success false.
type Transport interface {
	Invoke(ctx context.Context, message, agentID string, c Context) (Result, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, message, agentID string, c Context) (Result, error)

func (f TransportFunc) Invoke(ctx context.Context, message, agentID string, c Context) (Result, error) {
	return f(ctx, message, agentID, c)
}
