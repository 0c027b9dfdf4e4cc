package engine

import (
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	pdp_model "github.com/dev-mohitbeniwal/accessledger/pdp/model"
)

// PermissionEvaluator computes effective permissions from an evaluation
// snapshot. It keeps no state between calls.
type PermissionEvaluator struct{}

func NewPermissionEvaluator() *PermissionEvaluator {
	return &PermissionEvaluator{}
}

// Evaluate returns the effective value of perm. A deactivated user holds
// nothing. Otherwise a direct grant always wins, the group and profile layers
// are OR-ed together and the first granting layer is reported as the source.
func (pe *PermissionEvaluator) Evaluate(snap *model.EvaluationSnapshot, perm model.Permission) model.Decision {
	if !snap.User.Active {
		return model.Decision{Permission: perm, Source: model.SourceNone}
	}
	if direct := pe.evaluateDirect(snap, perm); direct.Explicit {
		return direct.Decision(perm)
	}

	decision := pe.combineLayers(perm,
		pe.evaluateGroups(snap, perm),
		pe.evaluateProfile(snap, perm),
	)
	logger.Debug("Evaluated permission",
		zap.String("userID", snap.User.ID),
		zap.String("resource", snap.Resource.Ref().Key()),
		zap.String("permission", string(perm)),
		zap.Bool("granted", decision.Granted),
		zap.String("source", string(decision.Source)))
	return decision
}

// EvaluateAll evaluates every permission of the resource type against the
// same snapshot.
func (pe *PermissionEvaluator) EvaluateAll(snap *model.EvaluationSnapshot) map[model.Permission]model.Decision {
	perms := snap.Resource.Type.Permissions()
	out := make(map[model.Permission]model.Decision, len(perms))
	for _, p := range perms {
		out[p] = pe.Evaluate(snap, p)
	}
	return out
}

func (pe *PermissionEvaluator) evaluateDirect(snap *model.EvaluationSnapshot, perm model.Permission) pdp_model.LayerResult {
	value, ok := snap.Direct[perm]
	if !ok {
		return pdp_model.LayerResult{Source: model.SourceDirect, Reason: "No direct grant"}
	}
	return pdp_model.LayerResult{
		Source:   model.SourceDirect,
		Ref:      snap.User.ID,
		Explicit: true,
		Granted:  value,
		Reason:   "Direct grant",
	}
}

// evaluateGroups looks at the groups the user belongs to. The profile's
// mapped group is left to the profile layer.
func (pe *PermissionEvaluator) evaluateGroups(snap *model.EvaluationSnapshot, perm model.Permission) pdp_model.LayerResult {
	result := pdp_model.LayerResult{Source: model.SourceGroup, Reason: "No group grant"}
	mapped := mappedGroupID(snap)
	for _, g := range snap.Groups {
		if g.GroupID == mapped {
			continue
		}
		value, ok := g.Grants[perm]
		if !ok {
			continue
		}
		if value {
			return pdp_model.LayerResult{
				Source:   model.SourceGroup,
				Ref:      g.GroupID,
				Explicit: true,
				Granted:  true,
				Reason:   "Granted by group",
			}
		}
		if !result.Explicit {
			result.Ref = g.GroupID
			result.Explicit = true
			result.Reason = "Not granted by group"
		}
	}
	return result
}

// evaluateProfile merges the profile's fixed entries with the grants of its
// mapped group. The mapped group only counts while the user is a member.
func (pe *PermissionEvaluator) evaluateProfile(snap *model.EvaluationSnapshot, perm model.Permission) pdp_model.LayerResult {
	result := pdp_model.LayerResult{Source: model.SourceProfile, Reason: "No profile grant"}
	if snap.Profile == nil {
		return result
	}
	result.Ref = snap.Profile.ID

	ref := snap.Resource.Ref()
	for _, e := range snap.Profile.Entries {
		if e.Permission != perm || !e.AppliesTo(ref) {
			continue
		}
		result.Explicit = true
		if e.Value {
			result.Granted = true
			result.Reason = "Granted by profile entry"
			return result
		}
	}

	if mapped := mappedGroupID(snap); mapped != "" {
		if value, ok := snap.ProfileGroup.Grants[perm]; ok {
			result.Explicit = true
			if value {
				result.Granted = true
				result.Reason = "Granted by profile group"
				return result
			}
		}
	}

	if result.Explicit {
		result.Reason = "Not granted by profile"
	}
	return result
}

func (pe *PermissionEvaluator) combineLayers(perm model.Permission, layers ...pdp_model.LayerResult) model.Decision {
	for _, l := range layers {
		if l.Granted {
			return l.Decision(perm)
		}
	}
	for _, l := range layers {
		if l.Explicit {
			return l.Decision(perm)
		}
	}
	return model.Decision{Permission: perm, Source: model.SourceNone}
}

// mappedGroupID returns the profile's mapped group when the user is an
// active member of it, and "" otherwise.
func mappedGroupID(snap *model.EvaluationSnapshot) string {
	if snap.Profile == nil || snap.ProfileGroup == nil {
		return ""
	}
	for _, g := range snap.Groups {
		if g.GroupID == snap.ProfileGroup.GroupID {
			return g.GroupID
		}
	}
	return ""
}
