package openapi

import (
	"errors"

	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/gosimple/slug"
)

// Transform patches generated operations. Transforms run in order, so a
// transform addresses operations by the IDs produced by the ones before it.
type Transform struct {
	name  string
	apply func(op *Operation) (bool, error)
}

// RenameOperation gives the operation id a new name. Its ID is rebuilt from
// the new name.
func RenameOperation(id, name string) Transform {
	return Transform{
		name: "rename operation " + id,
		apply: func(op *Operation) (bool, error) {
			if op.ID != id {
				return false, nil
			}
			op.Name = name
			op.key = name
			op.refreshID()
			return true, nil
		},
	}
}

// RenameResource moves every operation of resource from to resource to.
func RenameResource(from, to string) Transform {
	fromSlug := slug.Make(from)
	return Transform{
		name: "rename resource " + from,
		apply: func(op *Operation) (bool, error) {
			if slug.Make(op.Resource) != fromSlug {
				return false, nil
			}
			op.Resource = to
			op.refreshID()
			return true, nil
		},
	}
}

// TweakProperty edits a property in place. An empty id applies fn to every
// operation that has the property.
func TweakProperty(id, property string, fn func(p *node.Property)) Transform {
	return Transform{
		name: "tweak property " + property,
		apply: func(op *Operation) (bool, error) {
			if fn == nil {
				return false, errors.New("tweak function is required")
			}
			if id != "" && op.ID != id {
				return false, nil
			}
			prop, ok := op.Property(property)
			if !ok {
				return false, nil
			}
			fn(prop)
			return true, nil
		},
	}
}
