package services

import (
  "bytes"
  "fmt"
  "math"
  "os"
  "strings"

  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/font"
  "golang.org/x/image/font/basicfont"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/types"
)

// MindMapRenderService rasterizes a mind map into a PNG so clients can show a
// bitmap even when the image provider is unavailable.
type MindMapRenderService interface {
  Render(mm *types.MindMap) ([]byte, error)
}

type mindMapRenderService struct {
  log        *logger.Logger
  titleFace  font.Face
  labelFace  font.Face
}

func NewMindMapRenderService(baseLog *logger.Logger) MindMapRenderService {
  serviceLog := baseLog.With("service", "MindMapRenderService")

  titleFace := font.Face(basicfont.Face7x13)
  labelFace := font.Face(basicfont.Face7x13)
  if fontPath := strings.TrimSpace(os.Getenv("MINDMAP_FONT")); fontPath != "" {
    if tf, lf, err := loadRenderFaces(fontPath); err != nil {
      serviceLog.Warn("Could not load mind map font, using builtin face", "error", err, "font", fontPath)
    } else {
      titleFace = tf
      labelFace = lf
    }
  }

  return &mindMapRenderService{
    log:       serviceLog,
    titleFace: titleFace,
    labelFace: labelFace,
  }
}

func loadRenderFaces(path string) (font.Face, font.Face, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, nil, fmt.Errorf("could not read font file: %w", err)
  }
  parsed, err := truetype.Parse(raw)
  if err != nil {
    return nil, nil, fmt.Errorf("could not parse font file: %w", err)
  }
  titleFace := truetype.NewFace(parsed, &truetype.Options{Size: 28})
  labelFace := truetype.NewFace(parsed, &truetype.Options{Size: 16})
  return titleFace, labelFace, nil
}

const (
  renderWidth    = 1200
  renderHeight   = 800
  centralRadiusX = 150
  centralRadiusY = 50
)

func (s *mindMapRenderService) Render(mm *types.MindMap) ([]byte, error) {
  if mm == nil || strings.TrimSpace(mm.CentralTopic) == "" {
    return nil, fmt.Errorf("mind map missing central topic: %w", apperr.ErrValidation)
  }
  if len(mm.Branches) == 0 {
    return nil, fmt.Errorf("mind map has no branches: %w", apperr.ErrValidation)
  }

  dc := gg.NewContext(renderWidth, renderHeight)
  dc.SetRGB(1, 1, 1)
  dc.Clear()

  cx := float64(renderWidth) / 2
  cy := float64(renderHeight) / 2

  // Branch anchors sit on an ellipse around the central node.
  orbitX := float64(renderWidth)/2 - 220
  orbitY := float64(renderHeight)/2 - 140
  n := len(mm.Branches)
  anchors := make([][2]float64, n)
  for i := range mm.Branches {
    angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
    anchors[i] = [2]float64{cx + orbitX*math.Cos(angle), cy + orbitY*math.Sin(angle)}
  }

  // Connectors first so nodes draw on top of them.
  dc.SetRGB(0.6, 0.6, 0.65)
  dc.SetLineWidth(2)
  for _, a := range anchors {
    dc.DrawLine(cx, cy, a[0], a[1])
    dc.Stroke()
  }

  // Central node
  dc.SetRGB(0.26, 0.42, 0.88)
  dc.DrawEllipse(cx, cy, centralRadiusX, centralRadiusY)
  dc.Fill()
  dc.SetRGB(1, 1, 1)
  dc.SetFontFace(s.titleFace)
  dc.DrawStringAnchored(truncateLabel(mm.CentralTopic, 28), cx, cy, 0.5, 0.5)

  // Branch nodes with their children stacked beneath
  dc.SetFontFace(s.labelFace)
  for i, branch := range mm.Branches {
    ax, ay := anchors[i][0], anchors[i][1]

    label := truncateLabel(branch.Label, 24)
    w, h := dc.MeasureString(label)
    dc.SetRGB(0.92, 0.94, 1)
    dc.DrawRoundedRectangle(ax-w/2-12, ay-h/2-8, w+24, h+16, 8)
    dc.Fill()
    dc.SetRGB(0.15, 0.2, 0.4)
    dc.DrawStringAnchored(label, ax, ay, 0.5, 0.5)

    childY := ay + h/2 + 22
    for _, child := range branch.Children {
      text := "• " + truncateLabel(child, 30)
      dc.SetRGB(0.35, 0.35, 0.4)
      dc.DrawStringAnchored(text, ax, childY, 0.5, 0.5)
      childY += 20
    }
  }

  var buf bytes.Buffer
  if err := dc.EncodePNG(&buf); err != nil {
    return nil, fmt.Errorf("failed to encode mind map png: %w", err)
  }
  return buf.Bytes(), nil
}

func truncateLabel(s string, max int) string {
  runes := []rune(strings.TrimSpace(s))
  if len(runes) <= max {
    return string(runes)
  }
  return string(runes[:max-1]) + "…"
}
