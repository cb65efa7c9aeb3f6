package modhook

// Resolver turns opaque handles into host objects. It keeps no state of its
// own; a miss is an expected outcome and is only logged.
type Resolver struct {
	forms  FormTable
	logger Logger
}

// NewResolver creates a resolver over the host's form table.
func NewResolver(forms FormTable, logger Logger) *Resolver {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Resolver{forms: forms, logger: logger}
}

// ByEditorID looks a form up by its symbolic editor ID.
func (r *Resolver) ByEditorID(editorID string) (Form, bool) {
	var form Form
	if !isNil(r.forms) {
		form = r.forms.LookupByEditorID(editorID)
	}
	if isNil(form) {
		r.logger.Warn("Form not found", "editorID", editorID)
		return nil, false
	}
	return form, true
}

// ByID looks a form up by its identifier.
func (r *Resolver) ByID(id FormID) (Form, bool) {
	var form Form
	if !isNil(r.forms) {
		form = r.forms.LookupByID(id)
	}
	if isNil(form) {
		r.logger.Warn("Form not found", "formID", id.String())
		return nil, false
	}
	return form, true
}

// Player returns the player character. Its absence is logged as an error
// because the host normally always has one.
func (r *Resolver) Player() (Actor, bool) {
	var player Actor
	if !isNil(r.forms) {
		player = r.forms.Player()
	}
	if isNil(player) {
		r.logger.Error("Failed to get player character")
		return nil, false
	}
	return player, true
}

// ActorByID resolves id and casts it to an Actor. A form that exists but is
// not an actor is a miss without a warning.
func (r *Resolver) ActorByID(id FormID) (Actor, bool) {
	form, ok := r.ByID(id)
	if !ok {
		return nil, false
	}
	return As[Actor](form)
}
