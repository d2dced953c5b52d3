package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"packbot/models"
)

//go:embed deck.json
var deckJSON []byte

// Default returns the catalog built from the embedded deck.
func Default() (*Catalog, error) {
	var raw map[string][]CardDefinition
	if err := json.Unmarshal(deckJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse embedded deck: %w", err)
	}

	tiers := make(map[models.Rarity][]CardDefinition, len(raw))
	for name, defs := range raw {
		r := models.Rarity(name)
		if !r.Valid() {
			return nil, fmt.Errorf("embedded deck has unknown tier %q", name)
		}
		tiers[r] = defs
	}

	return New(tiers)
}
