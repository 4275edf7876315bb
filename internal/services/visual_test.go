package services

import (
  "strings"
  "testing"
)

func TestParseMindMap(t *testing.T) {
  valid := map[string]any{
    "central_topic": "Photosynthesis",
    "branches": []any{
      map[string]any{"label": "Inputs", "children": []any{"Light", "Water", ""}},
      map[string]any{"label": "Outputs", "children": []any{"Glucose"}},
    },
  }

  t.Run("valid", func(t *testing.T) {
    mm, err := parseMindMap(valid)
    if err != nil {
      t.Fatalf("parseMindMap: %v", err)
    }
    if mm.CentralTopic != "Photosynthesis" {
      t.Fatalf("central topic = %q", mm.CentralTopic)
    }
    if len(mm.Branches) != 2 {
      t.Fatalf("branches = %d, want 2", len(mm.Branches))
    }
    // Blank children are dropped, not kept as empty strings.
    if len(mm.Branches[0].Children) != 2 {
      t.Fatalf("children = %v", mm.Branches[0].Children)
    }
  })

  bad := []struct {
    name   string
    obj    map[string]any
  }{
    {name: "nil", obj: nil},
    {name: "missing central topic", obj: map[string]any{"branches": []any{}}},
    {name: "no branches", obj: map[string]any{"central_topic": "X", "branches": []any{}}},
    {name: "branch not object", obj: map[string]any{"central_topic": "X", "branches": []any{"oops"}}},
    {name: "branch missing label", obj: map[string]any{"central_topic": "X", "branches": []any{map[string]any{"children": []any{}}}}},
    {name: "child not string", obj: map[string]any{"central_topic": "X", "branches": []any{map[string]any{"label": "L", "children": []any{42}}}}},
  }
  for _, tc := range bad {
    t.Run(tc.name, func(t *testing.T) {
      if _, err := parseMindMap(tc.obj); err == nil {
        t.Fatal("expected error")
      }
    })
  }
}

func TestVisualPrompts(t *testing.T) {
  if p := EducationalImagePrompt("the water cycle"); !strings.Contains(p, "the water cycle") {
    t.Fatalf("image prompt missing content: %q", p)
  }
  if p := MindMapPrompt("the water cycle"); !strings.Contains(p, "the water cycle") {
    t.Fatalf("mind map prompt missing content: %q", p)
  }
}
