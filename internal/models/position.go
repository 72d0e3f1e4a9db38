package models

// PositionCatalog is the static catalog of interviewable positions, loaded
// from the embedded positions.json at startup.
type PositionCatalog struct {
	Categories []PositionCategory `json:"categories"`
}

type PositionCategory struct {
	Name      string     `json:"name"`
	Positions []Position `json:"positions"`
}

type Position struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Keywords     []string   `json:"keywords"`
	SubPositions []Position `json:"sub_positions,omitempty"`
}

// PositionInfo is the flattened lookup view of a catalog entry.
type PositionInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Keywords     []string `json:"keywords"`
	CategoryName string   `json:"category_name"`
	ParentID     string   `json:"parent_id,omitempty"`
	ParentName   string   `json:"parent_name,omitempty"`
	IsParent     bool     `json:"is_parent"`
	HasChildren  bool     `json:"has_children"`
}
