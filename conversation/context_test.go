package conversation

import (
	"strings"
	"testing"
)

func TestBootstrap_OnlyOnce(t *testing.T) {
	c := NewContext()
	if !c.Empty() {
		t.Fatal("new context should be empty")
	}

	c.Bootstrap("first")
	c.Bootstrap("second")

	msgs := c.Messages()
	if len(msgs) != 1 {
		t.Fatalf("Len() = %d, want 1", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[0].Content != "first" {
		t.Errorf("bootstrap message = %+v, want system/first", msgs[0])
	}
}

func TestSpliceToolExchange_AppendsTwoMessages(t *testing.T) {
	c := NewContext()
	c.Bootstrap("boot")
	c.SpliceToolExchange("partial output", "<mcp_tool_result>\n4\n</mcp_tool_result>")

	msgs := c.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Len() = %d, want 3", len(msgs))
	}
	if msgs[1].Role != RoleAssistant || msgs[1].Content != "partial output" {
		t.Errorf("message 1 = %+v, want assistant partial", msgs[1])
	}
	if msgs[2].Role != RoleToolResult {
		t.Errorf("message 2 role = %q, want %q", msgs[2].Role, RoleToolResult)
	}
}

func TestMessages_ReturnsCopy(t *testing.T) {
	c := NewContext()
	c.Bootstrap("boot")

	msgs := c.Messages()
	msgs[0].Content = "mutated"

	if c.Messages()[0].Content != "boot" {
		t.Error("mutating the returned slice reached live state")
	}
}

func TestTrim_EvictsFIFOKeepingBootstrap(t *testing.T) {
	c := NewContext()
	c.Bootstrap("bootstrap")
	for _, s := range []string{"m1", "m2", "m3", "m4"} {
		c.AppendUser(s)
	}

	// Each message costs >2 tokens under a counter that charges 3 per
	// message, so a budget of 10 forces eviction down to 3 messages.
	counter := func(msgs []Message) int { return 3 * len(msgs) }
	dropped := c.Trim(counter, 10)

	if dropped != 2 {
		t.Errorf("Trim() dropped %d, want 2", dropped)
	}
	msgs := c.Messages()
	if msgs[0].Content != "bootstrap" {
		t.Errorf("position 0 = %q, want bootstrap preserved", msgs[0].Content)
	}
	if msgs[1].Content != "m3" || msgs[2].Content != "m4" {
		t.Errorf("eviction not FIFO: %+v", msgs)
	}
}

func TestTrim_StopsAtTwoMessages(t *testing.T) {
	c := NewContext()
	c.Bootstrap("bootstrap")
	c.AppendUser("only user message")

	// Budget impossible to satisfy: trimming must stop at two messages
	// rather than evict further.
	c.Trim(func(msgs []Message) int { return 1000 }, 1)

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if c.Messages()[0].Content != "bootstrap" {
		t.Error("bootstrap message evicted")
	}
}

func TestTrim_NilCounterUsesEstimate(t *testing.T) {
	c := NewContext()
	c.Bootstrap(strings.Repeat("x", 400))
	c.AppendUser(strings.Repeat("y", 400))
	c.AppendUser("short")

	c.Trim(nil, 120)

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestEstimateTokens(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: strings.Repeat("a", 40)},
		{Role: RoleUser, Content: ""},
	}
	// 4 + 10 for the first, 4 + 0 for the second.
	if got := EstimateTokens(msgs); got != 18 {
		t.Errorf("EstimateTokens() = %d, want 18", got)
	}
}

func TestBuildBootstrap(t *testing.T) {
	got := BuildBootstrap("what is 2+2?", "<mcp_available_tools>\n[]\n</mcp_available_tools>")

	for _, want := range []string{
		"INSTRUCTIONS:",
		"User: what is 2+2?",
		"<mcp_available_tools>",
		"CORRECT EXAMPLE",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BuildBootstrap() missing %q", want)
		}
	}
}
