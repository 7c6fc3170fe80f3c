package grape

import (
	"testing"

	"github.com/phobologic/grapelint/internal/syntax"
)

func call(method string, args ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.Call, Method: method, Args: args}
}

func block(send *syntax.Node, body ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.Block, Send: send, Body: seq(body...)}
}

func seq(stmts ...*syntax.Node) *syntax.Node {
	switch len(stmts) {
	case 0:
		return nil
	case 1:
		return stmts[0]
	}
	return &syntax.Node{Kind: syntax.Sequence, Children: stmts}
}

func TestIsGroupingBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *syntax.Node
		want bool
	}{
		{"namespace", block(call("namespace")), true},
		{"resources", block(call("resources")), true},
		{"segment", block(call("segment")), true},
		{"route_param", block(call("route_param")), false},
		{"request", block(call("get")), false},
		{"bare call", call("namespace"), false},
		{"receiver", block(&syntax.Node{Kind: syntax.Call, Method: "group", Receiver: call("api")}), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsGroupingBlock(tt.node); got != tt.want {
				t.Errorf("IsGroupingBlock = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRequestBlock(t *testing.T) {
	t.Parallel()

	for _, m := range RequestMethods {
		if !IsRequestBlock(block(call(m))) {
			t.Errorf("%s block should be a request", m)
		}
		if IsRequestBlock(call(m)) {
			t.Errorf("%s call without block should not be a request", m)
		}
	}
	if IsRequestBlock(block(call("resource"))) {
		t.Error("resource block should not be a request")
	}
}

func TestContainsRequest(t *testing.T) {
	t.Parallel()

	deep := block(call("namespace"),
		block(call("route_param"),
			block(call("route_param"),
				block(call("post")))))
	if !ContainsRequest(deep) {
		t.Error("expected nested request to be found")
	}
	if !ContainsRequest(block(call("get"))) {
		t.Error("a request block contains itself")
	}
	if ContainsRequest(seq(call("mount"), call("mount"))) {
		t.Error("mounts are not requests")
	}
	if ContainsRequest(nil) {
		t.Error("nil contains nothing")
	}
}

func TestContainsMount(t *testing.T) {
	t.Parallel()

	if !ContainsMount(block(call("resource"), call("mount"))) {
		t.Error("expected mount inside resource")
	}
	if ContainsMount(seq(call("desc"), block(call("post")))) {
		t.Error("unexpected mount")
	}
}

func TestStatements(t *testing.T) {
	t.Parallel()

	if got := Statements(nil); len(got) != 0 {
		t.Errorf("nil body: got %d statements", len(got))
	}

	single := call("desc")
	if got := Statements(single); len(got) != 1 || got[0] != single {
		t.Errorf("single body: got %v", got)
	}

	a, b := call("desc"), call("mount")
	if got := Statements(seq(a, b)); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("sequence body: got %v", got)
	}

	if !AnyStatement(seq(a, b), IsMount) {
		t.Error("AnyStatement should find mount")
	}
	if AnyStatement(nil, IsMount) {
		t.Error("AnyStatement on nil body")
	}
}
