package agent

// toolKind classifies a tool name for routing purposes.
type toolKind int

const (
	toolKindUnknown toolKind = iota
	toolKindFrontend
	toolKindBackend
)

// toolRouter owns the frontend/backend tool namespace split for one run and
// the identity map of active calls. It is not safe for concurrent use; each
// run has its own router.
type toolRouter struct {
	frontend map[string]struct{}
	backend  map[string]struct{}

	// frontendCalls maps call id to tool name for calls awaiting
	// out-of-band resolution by the frontend.
	frontendCalls map[string]string
	// backendCalls maps call id to tool name so a result chunk can be
	// matched back to its name, e.g. for per-tool visibility policy.
	backendCalls map[string]string
}

// newToolRouter builds a router for the given name sets. The frontend and
// backend sets must be disjoint; a non-empty intersection is a fatal
// configuration error.
func newToolRouter(frontendNames, backendNames []string) (*toolRouter, error) {
	r := &toolRouter{
		frontend:      make(map[string]struct{}, len(frontendNames)),
		backend:       make(map[string]struct{}, len(backendNames)),
		frontendCalls: make(map[string]string),
		backendCalls:  make(map[string]string),
	}
	for _, name := range frontendNames {
		r.frontend[name] = struct{}{}
	}

	var conflicts []string
	for _, name := range backendNames {
		if _, ok := r.frontend[name]; ok {
			conflicts = append(conflicts, name)
		}
		r.backend[name] = struct{}{}
	}
	if len(conflicts) > 0 {
		return nil, &ToolConflictError{Names: conflicts}
	}
	return r, nil
}

// classify reports which side of the run owns the named tool.
func (r *toolRouter) classify(name string) toolKind {
	if _, ok := r.frontend[name]; ok {
		return toolKindFrontend
	}
	if _, ok := r.backend[name]; ok {
		return toolKindBackend
	}
	return toolKindUnknown
}

// trackFrontendCall records a frontend tool call awaiting out-of-band
// resolution.
func (r *toolRouter) trackFrontendCall(id, name string) {
	r.frontendCalls[id] = name
}

// trackBackendCall records a backend tool call so its result can be matched
// back to a name.
func (r *toolRouter) trackBackendCall(id, name string) {
	r.backendCalls[id] = name
}

// frontendCall looks up a tracked frontend call by id.
func (r *toolRouter) frontendCall(id string) (string, bool) {
	name, ok := r.frontendCalls[id]
	return name, ok
}

// backendCall looks up a tracked backend call by id.
func (r *toolRouter) backendCall(id string) (string, bool) {
	name, ok := r.backendCalls[id]
	return name, ok
}
