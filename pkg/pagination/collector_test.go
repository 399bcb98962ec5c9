package pagination

import (
	"context"
	"fmt"
	"testing"

	"github.com/nrivas/portfolio-core/pkg/client"
)

func TestCollect_SinglePage(t *testing.T) {
	fetch := func(ctx context.Context, token string) (Page[int], *client.Error) {
		return Page[int]{Items: []int{1, 2, 3}}, nil
	}

	items, err := Collect(context.Background(), fetch, DefaultConfig())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("items = %d, want 3", len(items))
	}
}

func TestCollect_FollowsTokens(t *testing.T) {
	pages := map[string]Page[string]{
		"":   {Items: []string{"a", "b"}, NextToken: "p2"},
		"p2": {Items: []string{"c"}, NextToken: "p3"},
		"p3": {Items: []string{"d"}},
	}

	var tokensSeen []string
	fetch := func(ctx context.Context, token string) (Page[string], *client.Error) {
		tokensSeen = append(tokensSeen, token)
		return pages[token], nil
	}

	items, err := Collect(context.Background(), fetch, DefaultConfig())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(items) != 4 {
		t.Errorf("items = %d, want 4", len(items))
	}
	if fmt.Sprint(tokensSeen) != "[ p2 p3]" {
		t.Errorf("tokensSeen = %v, want [\"\" p2 p3]", tokensSeen)
	}
}

func TestCollect_RespectsMaxPages(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, token string) (Page[int], *client.Error) {
		calls++
		// Endless pagination: always reports another page.
		return Page[int]{Items: []int{calls}, NextToken: "more"}, nil
	}

	items, err := Collect(context.Background(), fetch, Config{MaxPages: 3})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(items) != 3 {
		t.Errorf("items = %d, want 3", len(items))
	}
}

func TestCollect_ReturnsPartialOnError(t *testing.T) {
	fetch := func(ctx context.Context, token string) (Page[int], *client.Error) {
		if token == "" {
			return Page[int]{Items: []int{1, 2}, NextToken: "p2"}, nil
		}
		return Page[int]{}, &client.Error{Type: client.ErrorTypeAPI, StatusCode: 500, Message: "boom"}
	}

	items, err := Collect(context.Background(), fetch, DefaultConfig())
	if err == nil {
		t.Fatal("Collect should surface the page error")
	}
	if err.Type != client.ErrorTypeAPI {
		t.Errorf("error type = %s, want API", err.Type)
	}
	if len(items) != 2 {
		t.Errorf("partial items = %d, want 2", len(items))
	}
}
