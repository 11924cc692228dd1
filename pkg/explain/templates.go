// Package explain builds the deterministic, template-driven explanation for
// one inference run (spec.md §4.10): a narrative, structured inference
// paths, integer-indexed cross-references, and an audit header.
package explain

import "fmt"

// Templates maps a node name and observed-state index to the rationale
// sentence the narrative cites for that (node, state) pair (spec.md §4.10:
// "composed from per-node rationale strings keyed by (node_name,
// observed_state)"). A node/state pair absent from the map falls back to a
// generic, still-deterministic sentence built from the node and state
// names — the narrative never free-form generates text.
type Templates map[string]map[int]string

// SentenceFor returns the rationale sentence for (nodeName, state), falling
// back to a generic template when none is registered.
func (t Templates) SentenceFor(nodeName string, state int, stateName string) string {
	if byState, ok := t[nodeName]; ok {
		if s, ok := byState[state]; ok {
			return s
		}
	}
	return fmt.Sprintf("%s observed at %s", nodeName, stateName)
}
