package agent

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// InvokeProcedure is the unary RPC served by the agent gateway.
const InvokeProcedure = "/agent.v1.AgentService/Invoke"

// Request and reply field names.
const (
	fieldMessage   = "message"
	fieldAgentID   = "agent_id"
	fieldSessionID = "session_id"
	fieldSuccess   = "success"
	fieldResponse  = "response"
	fieldError     = "error"
)

// ConnectTransport invokes the agent gateway over Connect using the ProtoJSON
// codec, so the gateway sees plain JSON bodies.
type ConnectTransport struct {
	client *connect.Client[structpb.Struct, structpb.Struct]
}

// NewConnectTransport creates a transport calling baseURL. Extra client
// options are applied after the ProtoJSON codec.
func NewConnectTransport(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ConnectTransport {
	opts = append([]connect.ClientOption{connect.WithProtoJSON()}, opts...)
	return &ConnectTransport{
		client: connect.NewClient[structpb.Struct, structpb.Struct](
			httpClient,
			strings.TrimRight(baseURL, "/")+InvokeProcedure,
			opts...,
		),
	}
}

func (t *ConnectTransport) Invoke(ctx context.Context, message, agentID string, c Context) (Result, error) {
	req, err := structpb.NewStruct(map[string]any{
		fieldMessage:   message,
		fieldAgentID:   agentID,
		fieldSessionID: c.SessionID,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := t.client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}

		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return Result{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
		}
		return Result{Success: false, Error: errorMessage(err)}, nil
	}

	return decodeReply(resp.Msg), nil
}

// errorMessage returns the message the gateway attached to a failed call.
func errorMessage(err error) string {
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return cerr.Message()
	}
	return err.Error()
}

// decodeReply reads the gateway envelope {success, response, error}. A reply
// without an explicit success flag succeeds when it carries a response.
func decodeReply(msg *structpb.Struct) Result {
	fields := msg.GetFields()
	response := fields[fieldResponse]

	success := response != nil
	if flag, ok := fields[fieldSuccess].GetKind().(*structpb.Value_BoolValue); ok {
		success = flag.BoolValue
	}

	return Result{
		Success:  success,
		Response: response,
		Error:    fields[fieldError].GetStringValue(),
	}
}
