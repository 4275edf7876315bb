package services

import "testing"

func TestParseClassification(t *testing.T) {
  cases := []struct {
    name      string
    obj       map[string]any
    want      *Classification
    wantErr   bool
  }{
    {
      name: "valid",
      obj:  map[string]any{"subject": "Biology", "category": "Science", "icon": "🧬", "confidence": 0.92},
      want: &Classification{Subject: "Biology", Category: "Science", Icon: "🧬", Confidence: 0.92},
    },
    {
      name: "whitespace trimmed",
      obj:  map[string]any{"subject": "  Biology ", "category": " Science", "icon": " 🧬 ", "confidence": 0.5},
      want: &Classification{Subject: "Biology", Category: "Science", Icon: "🧬", Confidence: 0.5},
    },
    {name: "nil response", obj: nil, wantErr: true},
    {name: "missing subject", obj: map[string]any{"icon": "🧬", "confidence": 0.9}, wantErr: true},
    {name: "blank subject", obj: map[string]any{"subject": "  ", "icon": "🧬", "confidence": 0.9}, wantErr: true},
    {name: "missing icon", obj: map[string]any{"subject": "Biology", "confidence": 0.9}, wantErr: true},
    {name: "confidence wrong type", obj: map[string]any{"subject": "Biology", "icon": "🧬", "confidence": "high"}, wantErr: true},
    {name: "confidence above one", obj: map[string]any{"subject": "Biology", "icon": "🧬", "confidence": 1.2}, wantErr: true},
    {name: "confidence negative", obj: map[string]any{"subject": "Biology", "icon": "🧬", "confidence": -0.1}, wantErr: true},
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      got, err := parseClassification(tc.obj)
      if tc.wantErr {
        if err == nil {
          t.Fatalf("expected error, got %+v", got)
        }
        return
      }
      if err != nil {
        t.Fatalf("unexpected error: %v", err)
      }
      if *got != *tc.want {
        t.Fatalf("got %+v, want %+v", got, tc.want)
      }
    })
  }
}
