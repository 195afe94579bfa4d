package agent_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/drafter/agent"
)

type invokeHandler func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func newGateway(t *testing.T, handle invokeHandler) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle(agent.InvokeProcedure, connect.NewUnaryHandler(
		agent.InvokeProcedure,
		func(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
			reply, err := handle(ctx, req.Msg)
			if err != nil {
				return nil, err
			}
			return connect.NewResponse(reply), nil
		},
	))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("structpb.NewStruct error = %v", err)
	}
	return s
}

func TestConnectTransport_Success(t *testing.T) {
	var got *structpb.Struct
	srv := newGateway(t, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		got = req
		return mustStruct(t, map[string]any{
			"success": true,
			"response": map[string]any{
				"status": "success",
				"result": map[string]any{"policy_title": "EU Launch Policy"},
			},
		}), nil
	})

	tr := agent.NewConnectTransport(srv.Client(), srv.URL+"/")
	res, err := tr.Invoke(context.Background(), "draft it", "agent-1", agent.Context{SessionID: "session_1"})
	if err != nil {
		t.Fatalf("Invoke error = %v", err)
	}

	if !res.Success {
		t.Errorf("Success = false, error %q", res.Error)
	}
	title := res.Response.GetStructValue().GetFields()["result"].GetStructValue().GetFields()["policy_title"].GetStringValue()
	if title != "EU Launch Policy" {
		t.Errorf("response title = %q", title)
	}

	fields := got.GetFields()
	if fields["message"].GetStringValue() != "draft it" ||
		fields["agent_id"].GetStringValue() != "agent-1" ||
		fields["session_id"].GetStringValue() != "session_1" {
		t.Errorf("request = %v", got)
	}
}

func TestConnectTransport_ReportedFailure(t *testing.T) {
	srv := newGateway(t, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		return mustStruct(t, map[string]any{"success": false, "error": "rate limited"}), nil
	})

	res, err := agent.NewConnectTransport(srv.Client(), srv.URL).
		Invoke(context.Background(), "m", "a", agent.Context{})
	if err != nil {
		t.Fatalf("Invoke error = %v", err)
	}
	if res.Success || res.Error != "rate limited" {
		t.Errorf("result = %+v, want failure with reason", res)
	}
}

func TestConnectTransport_RPCError(t *testing.T) {
	srv := newGateway(t, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		return nil, connect.NewError(connect.CodeResourceExhausted, errors.New("quota exceeded"))
	})

	res, err := agent.NewConnectTransport(srv.Client(), srv.URL).
		Invoke(context.Background(), "m", "a", agent.Context{})
	if err != nil {
		t.Fatalf("Invoke error = %v", err)
	}
	if res.Success || res.Error != "quota exceeded" {
		t.Errorf("result = %+v", res)
	}
}

func TestConnectTransport_Unreachable(t *testing.T) {
	srv := newGateway(t, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		return mustStruct(t, map[string]any{"success": true}), nil
	})
	client, url := srv.Client(), srv.URL
	srv.Close()

	res, err := agent.NewConnectTransport(client, url).Invoke(context.Background(), "m", "a", agent.Context{})
	if !errors.Is(err, agent.ErrUnreachable) {
		t.Fatalf("got %v, want ErrUnreachable", err)
	}
	if res.Success || res.Error != "" {
		t.Errorf("result = %+v, want zero", res)
	}
}

func TestConnectTransport_ImplicitSuccess(t *testing.T) {
	srv := newGateway(t, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		return mustStruct(t, map[string]any{"response": "plain text"}), nil
	})

	res, err := agent.NewConnectTransport(srv.Client(), srv.URL).
		Invoke(context.Background(), "m", "a", agent.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.Response.GetStringValue() != "plain text" {
		t.Errorf("result = %+v", res)
	}
}

func TestConnectTransport_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := newGateway(t, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return mustStruct(t, map[string]any{}), nil
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := agent.NewConnectTransport(srv.Client(), srv.URL).Invoke(ctx, "m", "a", agent.Context{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}

func TestTransportFunc(t *testing.T) {
	var tr agent.Transport = agent.TransportFunc(func(ctx context.Context, message, agentID string, c agent.Context) (agent.Result, error) {
		return agent.Result{Success: true, Response: structpb.NewStringValue(message + "/" + c.SessionID)}, nil
	})

	res, _ := tr.Invoke(context.Background(), "hi", "a", agent.Context{SessionID: "s"})
	if res.Response.GetStringValue() != "hi/s" {
		t.Errorf("Response = %v", res.Response)
	}
}
