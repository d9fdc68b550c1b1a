package doctree

import (
	"encoding/json"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelNone, "None"},
		{LevelTitle, "Title"},
		{LevelH1, "H1"},
		{LevelH2, "H2"},
		{LevelH3, "H3"},
		{LevelH4, "H4"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevel_IsOutline(t *testing.T) {
	for _, l := range []Level{LevelH1, LevelH2, LevelH3} {
		if !l.IsOutline() {
			t.Errorf("expected %s to be an outline level", l)
		}
	}
	for _, l := range []Level{LevelNone, LevelTitle, LevelH4} {
		if l.IsOutline() {
			t.Errorf("expected %s not to be an outline level", l)
		}
	}
}

func TestLevel_MarshalRejectsNonOutline(t *testing.T) {
	if _, err := json.Marshal(Heading{Level: LevelH4, Text: "x", Page: 1}); err == nil {
		t.Error("expected error marshalling an H4 heading")
	}
	if _, err := json.Marshal(Heading{Level: LevelTitle, Text: "x", Page: 1}); err == nil {
		t.Error("expected error marshalling a Title heading")
	}
}

func TestDocument_JSONShape(t *testing.T) {
	doc := NewDocument("Big Title", []Heading{
		{Level: LevelH1, Text: "Chapter One", Page: 1},
		{Level: LevelH2, Text: "1.1 Scope", Page: 2},
	})
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"title":"Big Title","outline":[{"level":"H1","text":"Chapter One","page":1},{"level":"H2","text":"1.1 Scope","page":2}]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if back.Outline[1].Level != LevelH2 {
		t.Errorf("expected H2 after unmarshal, got %s", back.Outline[1].Level)
	}
}

func TestNewDocument_EmptyOutlineIsArray(t *testing.T) {
	data, err := json.Marshal(NewDocument("Untitled Document", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"title":"Untitled Document","outline":[]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestDocument_Tree(t *testing.T) {
	doc := NewDocument("Manual", []Heading{
		{Level: LevelH1, Text: "Intro", Page: 1},
		{Level: LevelH2, Text: "Scope", Page: 1},
		{Level: LevelH3, Text: "Detail", Page: 2},
		{Level: LevelH2, Text: "Terms", Page: 2},
		{Level: LevelH1, Text: "Usage", Page: 3},
		{Level: LevelH3, Text: "Deep jump", Page: 3},
	})
	tree := doc.Tree()

	if tree.Title != "Manual" {
		t.Errorf("expected title %q, got %q", "Manual", tree.Title)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(tree.Children))
	}

	intro := tree.Children[0]
	if len(intro.Children) != 2 {
		t.Fatalf("expected 2 children under Intro, got %d", len(intro.Children))
	}
	if intro.Children[0].Title != "Scope" || len(intro.Children[0].Children) != 1 {
		t.Errorf("expected Scope with one child, got %+v", intro.Children[0])
	}

	usage := tree.Children[1]
	if len(usage.Children) != 1 || usage.Children[0].Title != "Deep jump" {
		t.Errorf("expected H3 to nest directly under H1, got %+v", usage.Children)
	}

	var order []string
	tree.Walk(func(n *DocNode, depth int) {
		order = append(order, n.Title)
	})
	want := []string{"Intro", "Scope", "Detail", "Terms", "Usage", "Deep jump"}
	if len(order) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("walk[%d]: expected %q, got %q", i, want[i], order[i])
		}
	}
}

func TestFlattenText(t *testing.T) {
	got := FlattenText([]Fragment{{Text: "a"}, {Text: "b"}})
	if got != "a\nb" {
		t.Errorf("expected %q, got %q", "a\nb", got)
	}
	if FlattenText(nil) != "" {
		t.Error("expected empty string for nil fragments")
	}
}
