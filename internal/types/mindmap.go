package types

// MindMap is the structured visual payload stored on assistant messages and
// returned by the standalone mind-map endpoint. It is marshaled into the
// message's mind_map_data jsonb column.
type MindMap struct {
  CentralTopic   string            `json:"central_topic"`
  Branches       []MindMapBranch   `json:"branches"`
}

type MindMapBranch struct {
  Label      string     `json:"label"`
  Children   []string   `json:"children"`
}
