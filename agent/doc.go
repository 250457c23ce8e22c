// Package agent turns a generation backend's content stream into a well
// formed protocol event sequence.
//
// Agent is the run engine. It opens and closes text message frames, routes
// tool calls between frontend and backend, and re-synchronizes the
// transcript with a MESSAGES_SNAPSHOT when backend tool results changed it.
// Empty text deltas are dropped as chunking artifacts, but whitespace-only
// deltas are forwarded: backends that chunk on word boundaries deliver
// inter-word spacing as separate deltas, and suppressing those would corrupt
// the rendered text.
//
//	reg := tool.NewRegistry()
//	reg.MustRegister(weatherTool, weatherHandler)
//
//	a := agent.New(provider, reg)
//	for ev := range a.Stream(ctx, input) {
//		data, _ := ev.ToJSON()
//		fmt.Printf("%s %s\n", ev.Type(), data)
//	}
//
// StatefulAgent adds a shared state document on top. It announces the state
// with a STATE_SNAPSHOT at the start of every run and publishes mutations
// as JSON Patch deltas:
//
//	a, err := agent.NewStateful(provider, reg, Recipe{},
//		agent.WithSystemMessage("You are a recipe assistant."))
//
// Both variants serve one run at a time. Handing the same instance to
// concurrent runs corrupts framing state; create one agent per run or
// serialize access.
package agent
