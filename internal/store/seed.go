package store

import "github.com/culturiqai/nalanda/internal/domain"

// DefaultWorldview returns the seed beliefs the engine starts with.
// The rubber_ball entry is deliberately flawed (is_brittle=true) so
// genesis validation has something to correct.
func DefaultWorldview() map[string]domain.SchemaData {
	return map[string]domain.SchemaData{
		"glass_bottle": {
			Parent: "physical_object",
			Properties: domain.Properties{
				"material":   domain.TextValue("glass"),
				"state":      domain.TextValue("solid"),
				"is_brittle": domain.BoolValue(true),
				"mass_kg":    domain.NumberValue(0.7),
			},
		},
		"tile_floor": {
			Parent: "physical_object",
			Properties: domain.Properties{
				"material": domain.TextValue("ceramic"),
				"state":    domain.TextValue("solid"),
				"is_hard":  domain.BoolValue(true),
			},
		},
		"rubber_ball": {
			Parent: "physical_object",
			Properties: domain.Properties{
				"material":   domain.TextValue("rubber"),
				"state":      domain.TextValue("solid"),
				"is_brittle": domain.BoolValue(true),
				"mass_kg":    domain.NumberValue(0.2),
			},
		},
	}
}
