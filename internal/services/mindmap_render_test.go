package services

import (
  "bytes"
  "errors"
  "image/png"
  "testing"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/types"
)

func TestMindMapRender(t *testing.T) {
  svc := NewMindMapRenderService(testLogger())

  mm := &types.MindMap{
    CentralTopic: "Photosynthesis",
    Branches: []types.MindMapBranch{
      {Label: "Inputs", Children: []string{"Light", "Water", "CO2"}},
      {Label: "Process", Children: []string{"Light reactions", "Calvin cycle"}},
      {Label: "Outputs", Children: []string{"Glucose", "Oxygen"}},
    },
  }

  data, err := svc.Render(mm)
  if err != nil {
    t.Fatalf("Render: %v", err)
  }
  img, err := png.Decode(bytes.NewReader(data))
  if err != nil {
    t.Fatalf("output is not a decodable png: %v", err)
  }
  bounds := img.Bounds()
  if bounds.Dx() != renderWidth || bounds.Dy() != renderHeight {
    t.Fatalf("unexpected canvas size %dx%d", bounds.Dx(), bounds.Dy())
  }
}

func TestMindMapRenderValidation(t *testing.T) {
  svc := NewMindMapRenderService(testLogger())

  cases := []struct {
    name   string
    mm     *types.MindMap
  }{
    {name: "nil"},
    {name: "blank topic", mm: &types.MindMap{CentralTopic: "  ", Branches: []types.MindMapBranch{{Label: "A"}}}},
    {name: "no branches", mm: &types.MindMap{CentralTopic: "X"}},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      if _, err := svc.Render(tc.mm); !errors.Is(err, apperr.ErrValidation) {
        t.Fatalf("expected validation error, got %v", err)
      }
    })
  }
}

func TestTruncateLabel(t *testing.T) {
  if got := truncateLabel("short", 10); got != "short" {
    t.Fatalf("got %q", got)
  }
  got := truncateLabel("a very long label that overflows", 10)
  if runes := []rune(got); len(runes) != 10 || runes[9] != '…' {
    t.Fatalf("got %q (%d runes)", got, len(runes))
  }
}
