package view

import "errors"

// Registry errors.
var (
	// ErrDuplicateTemplate is returned when a fragment's name (or a name it
	// defines) already exists in the registry's namespace.
	ErrDuplicateTemplate = errors.New("view: duplicate template name")

	// ErrFuncsAfterCompile is returned when Funcs is called after any
	// fragment has been compiled. Functions referenced by a template must
	// exist at parse time; adding them later would not make them visible
	// to already-compiled templates.
	ErrFuncsAfterCompile = errors.New("view: function table modified after compile")

	// ErrTemplateNotFound is returned by Lookup for names absent from the
	// registry.
	ErrTemplateNotFound = errors.New("view: template not found")

	// ErrRender is returned when executing a template fails, e.g. a missing
	// struct field or a runtime function error.
	ErrRender = errors.New("view: render failed")
)
