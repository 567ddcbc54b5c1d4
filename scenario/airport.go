// Package scenario supplies scenario graphs: a built-in airport scenario
// and a loader for declarative JSON scenario files.
package scenario

import "github.com/doronnac/elsa/domain"

// Airport returns the built-in border-control scenario. Decision criteria
// are kept short and direct for small thinking models, and the pass option
// is always listed first to avoid first-option bias toward failure.
func Airport() *domain.Graph {
	nodes := []domain.Node{
		{
			ID:         "START",
			Transcript: "Hello. Passport please.",
			Options: []domain.Option{
				{ID: "PASSPORT_CHECK", Description: "The traveller hands over the passport peacefully."},
				{ID: "FAILED", Description: "The traveller refuses, ignores, or answers inappropriately."},
			},
		},
		{
			ID:         "PASSPORT_CHECK",
			Transcript: "Thank you. Let me take a look... Where are you travelling from today?",
			Options: []domain.Option{
				{ID: "QUESTION_PURPOSE", Description: "The traveller names a real place, such as a country or city."},
				{ID: "FAILED", Description: "The traveller is evasive, vague, or contradictory."},
			},
			SystemContext: "EXAMPLES FOR PROPER RESPONSES:\n" +
				"- From Texas.\n" +
				"- I'm travelling from Frankfurt.\n" +
				"- From Atlanta, Georgia.",
		},
		{
			ID:         "QUESTION_PURPOSE",
			Transcript: "And what is the purpose of your visit?",
			Options: []domain.Option{
				{ID: "LUGGAGE_CHECK", Description: "The traveller gives a normal reason (tourism, business, family, etc.)."},
				{ID: "FAILED_SUSPICIOUS", Description: "The traveller refuses, mentions something illegal, or is evasive."},
			},
			SystemContext: "The guard asked the purpose of the visit.",
		},
		{
			ID:         "LUGGAGE_CHECK",
			Transcript: "Alright. Do you have anything to declare?",
			Options: []domain.Option{
				{ID: "CLEARED", Description: "The traveller says nothing to declare or lists normal items."},
				{ID: "FAILED_CONTRABAND", Description: "The traveller mentions illegal items, acts nervous, or is suspicious."},
			},
			SystemContext: "The guard asked about declarations.",
		},
		{
			ID:         "CLEARED",
			Transcript: "Everything checks out. Welcome, and enjoy your stay!",
			Terminal:   true,
			Success:    true,
		},
		{
			ID:         "FAILED",
			Transcript: "Sir/Ma'am, I'm going to have to ask you to step aside. Security!",
			Terminal:   true,
		},
		{
			ID:         "FAILED_SUSPICIOUS",
			Transcript: "Your answers don't add up. Please follow me to secondary screening.",
			Terminal:   true,
		},
		{
			ID:         "FAILED_CONTRABAND",
			Transcript: "I'm going to need you to open your bags. Security has been notified.",
			Terminal:   true,
		},
	}

	m := make(map[string]domain.Node, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return &domain.Graph{Nodes: m, StartID: "START"}
}
