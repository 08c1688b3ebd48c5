package scenario

// BuiltIn returns predefined attack scripts.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		"probe": {
			Name:        "Probe",
			Description: "A handful of slow drones test the radar picket before a single cruise missile follows.",
			Waves: []Wave{
				{AtSeconds: 0, Count: 3, Archetype: "drone"},
				{AtSeconds: 45, Count: 1, Archetype: "cruise"},
			},
		},
		"saturation": {
			Name:        "Saturation",
			Description: "Dense cruise-missile waves from the east try to exhaust the interceptor batteries.",
			Waves: []Wave{
				{AtSeconds: 0, Count: 6, Archetype: "cruise", Edge: "east"},
				{AtSeconds: 30, Count: 6, Archetype: "cruise", Edge: "east"},
				{AtSeconds: 60, Count: 8, Archetype: "cruise", Edge: "east"},
			},
		},
		"mixed-strike": {
			Name:        "Mixed Strike",
			Description: "Drones draw attention north while ballistic and hypersonic shots come in from the south.",
			Waves: []Wave{
				{AtSeconds: 0, Count: 4, Archetype: "drone", Edge: "north"},
				{AtSeconds: 20, Count: 2, Archetype: "ballistic", Edge: "south"},
				{AtSeconds: 40, Count: 1, Archetype: "hypersonic", Edge: "south"},
			},
		},
	}
}
