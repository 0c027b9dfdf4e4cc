package model

import (
	"github.com/dev-mohitbeniwal/accessledger/model"
)

// LayerResult is what one provenance layer says about a single permission.
type LayerResult struct {
	Source model.GrantSource
	// Ref names the group or profile that produced the result.
	Ref string
	// Explicit is set when the layer holds an entry for the permission,
	// whether it grants or not.
	Explicit bool
	Granted  bool
	Reason   string
}

func (r LayerResult) Decision(p model.Permission) model.Decision {
	return model.Decision{
		Permission:  p,
		Granted:     r.Granted,
		Source:      r.Source,
		SourceRef:   r.Ref,
		Overridable: r.Source == model.SourceGroup || r.Source == model.SourceProfile,
	}
}
