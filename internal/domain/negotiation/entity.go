package negotiation

// GraphEntity is a knowledge-graph entity matched against change text.
// Not persisted in postgres; it mirrors the (:Entity) node shape in neo4j.
type GraphEntity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Summary  string `json:"summary,omitempty"`
	Mentions int    `json:"mentions"`
}
