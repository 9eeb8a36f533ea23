package authz

import (
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

// Action is the kind of mutation being authorized.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of entity being mutated.
type Resource string

const (
	ResourceTask    Resource = "task"
	ResourceTeam    Resource = "team"
	ResourceComment Resource = "comment"
	ResourceUser    Resource = "user"
	// ResourceProfile is the actor's own user record.
	ResourceProfile Resource = "profile"
)

// Rule is a named predicate over Facts and the proposed delta.
type Rule string

const (
	RuleAlways                     Rule = "always"
	RuleNever                      Rule = "never"
	RuleCreator                    Rule = "creator"
	RuleCreatorOrTeamManager       Rule = "creatorOrTeamManager"
	RuleStatusOnlyAssigneeOrMember Rule = "statusOnlyAssigneeOrMember"
	RuleSelfAssignedOrMember       Rule = "selfAssignedOrMember"
	RuleReachable                  Rule = "reachable"
	RuleSelf                       Rule = "self"
)

// Reason codes carried by a Decision.
const (
	ReasonAllowRole          = "ALLOW_ROLE"
	ReasonAllowCreator       = "ALLOW_CREATOR"
	ReasonAllowTeamManager   = "ALLOW_TEAM_MANAGER"
	ReasonAllowRelationship  = "ALLOW_RELATIONSHIP"
	ReasonAllowSelf          = "ALLOW_SELF"
	ReasonDenyRole           = "DENY_ROLE"
	ReasonDenyNoRelationship = "DENY_NO_RELATIONSHIP"
	ReasonDenyFieldScope     = "DENY_FIELD_SCOPE"
	ReasonDenyUnknownPolicy  = "DENY_UNKNOWN_POLICY"
)

// Facts describe the actor's relationship to the resource. They are computed
// by the caller against the current resource snapshot.
type Facts struct {
	IsCreator         bool
	IsCurrentAssignee bool
	IsTeamMember      bool
	IsTeamManager     bool
	// IsSelf marks a user record that belongs to the actor.
	IsSelf bool
}

// Row is one entry of the policy table.
type Row struct {
	Role     entities.Role
	Action   Action
	Resource Resource
	Rule     Rule
}

// Request is the input of a decision.
type Request struct {
	Actor    entities.Actor
	Action   Action
	Resource Resource
	Facts    Facts
	// Delta lists the field names the mutation touches.
	Delta []string
}

// Decision is the output of Decide.
type Decision struct {
	Allowed bool
	Reason  string
}

var policyTable = []Row{
	{entities.RoleAdmin, ActionCreate, ResourceTask, RuleAlways},
	{entities.RoleAdmin, ActionUpdate, ResourceTask, RuleAlways},
	{entities.RoleAdmin, ActionDelete, ResourceTask, RuleAlways},
	{entities.RoleManager, ActionCreate, ResourceTask, RuleAlways},
	{entities.RoleManager, ActionUpdate, ResourceTask, RuleCreatorOrTeamManager},
	{entities.RoleManager, ActionDelete, ResourceTask, RuleCreator},
	{entities.RoleUser, ActionCreate, ResourceTask, RuleSelfAssignedOrMember},
	{entities.RoleUser, ActionUpdate, ResourceTask, RuleStatusOnlyAssigneeOrMember},
	{entities.RoleUser, ActionDelete, ResourceTask, RuleCreator},

	{entities.RoleAdmin, ActionCreate, ResourceTeam, RuleAlways},
	{entities.RoleAdmin, ActionUpdate, ResourceTeam, RuleAlways},
	{entities.RoleAdmin, ActionDelete, ResourceTeam, RuleAlways},
	{entities.RoleManager, ActionCreate, ResourceTeam, RuleAlways},
	{entities.RoleManager, ActionUpdate, ResourceTeam, RuleCreatorOrTeamManager},
	{entities.RoleManager, ActionDelete, ResourceTeam, RuleCreatorOrTeamManager},
	{entities.RoleUser, ActionCreate, ResourceTeam, RuleNever},
	{entities.RoleUser, ActionUpdate, ResourceTeam, RuleNever},
	{entities.RoleUser, ActionDelete, ResourceTeam, RuleNever},

	{entities.RoleAdmin, ActionCreate, ResourceComment, RuleAlways},
	{entities.RoleAdmin, ActionDelete, ResourceComment, RuleAlways},
	{entities.RoleManager, ActionCreate, ResourceComment, RuleReachable},
	{entities.RoleManager, ActionDelete, ResourceComment, RuleAlways},
	{entities.RoleUser, ActionCreate, ResourceComment, RuleReachable},
	{entities.RoleUser, ActionDelete, ResourceComment, RuleCreator},

	{entities.RoleAdmin, ActionCreate, ResourceUser, RuleAlways},
	{entities.RoleAdmin, ActionUpdate, ResourceUser, RuleAlways},
	{entities.RoleManager, ActionCreate, ResourceUser, RuleNever},
	{entities.RoleManager, ActionUpdate, ResourceUser, RuleNever},
	{entities.RoleUser, ActionCreate, ResourceUser, RuleNever},
	{entities.RoleUser, ActionUpdate, ResourceUser, RuleNever},

	{entities.RoleAdmin, ActionUpdate, ResourceProfile, RuleSelf},
	{entities.RoleManager, ActionUpdate, ResourceProfile, RuleSelf},
	{entities.RoleUser, ActionUpdate, ResourceProfile, RuleSelf},
}

// PolicyTable returns a copy of the policy rows.
func PolicyTable() []Row {
	return append([]Row(nil), policyTable...)
}

type policyKey struct {
	role     entities.Role
	action   Action
	resource Resource
}

// Engine evaluates requests against a policy table.
type Engine struct {
	rules map[policyKey]Rule
}

// NewEngine builds an engine over the default policy table.
func NewEngine() *Engine {
	return NewEngineWithTable(policyTable)
}

// NewEngineWithTable builds an engine over rows. Later rows win on duplicates.
func NewEngineWithTable(rows []Row) *Engine {
	rules := make(map[policyKey]Rule, len(rows))
	for _, r := range rows {
		rules[policyKey{r.Role, r.Action, r.Resource}] = r.Rule
	}
	return &Engine{rules: rules}
}

// Decide evaluates the request. Tenant match is assumed to be pre-checked.
func (e *Engine) Decide(req Request) Decision {
	rule, ok := e.rules[policyKey{req.Actor.Role, req.Action, req.Resource}]
	if !ok {
		return deny(ReasonDenyUnknownPolicy)
	}
	return Evaluate(rule, req.Facts, req.Delta)
}

// Decide evaluates the request against the default policy table.
func Decide(req Request) Decision {
	return defaultEngine.Decide(req)
}

var defaultEngine = NewEngine()

// Evaluate applies a single rule.
func Evaluate(rule Rule, f Facts, delta []string) Decision {
	switch rule {
	case RuleAlways:
		return allow(ReasonAllowRole)
	case RuleNever:
		return deny(ReasonDenyRole)
	case RuleCreator:
		if f.IsCreator {
			return allow(ReasonAllowCreator)
		}
		return deny(ReasonDenyNoRelationship)
	case RuleCreatorOrTeamManager:
		if f.IsCreator {
			return allow(ReasonAllowCreator)
		}
		if f.IsTeamManager {
			return allow(ReasonAllowTeamManager)
		}
		return deny(ReasonDenyNoRelationship)
	case RuleStatusOnlyAssigneeOrMember:
		if !onlyTouches(delta, entities.FieldStatus) {
			return deny(ReasonDenyFieldScope)
		}
		if f.IsCurrentAssignee || f.IsTeamMember {
			return allow(ReasonAllowRelationship)
		}
		return deny(ReasonDenyNoRelationship)
	case RuleSelfAssignedOrMember:
		if !touchesAny(delta, entities.FieldAssignees, entities.FieldTeam) {
			return allow(ReasonAllowCreator)
		}
		if f.IsCurrentAssignee || f.IsTeamMember {
			return allow(ReasonAllowRelationship)
		}
		return deny(ReasonDenyNoRelationship)
	case RuleReachable:
		if f.IsCreator || f.IsCurrentAssignee || f.IsTeamMember || f.IsTeamManager {
			return allow(ReasonAllowRelationship)
		}
		return deny(ReasonDenyNoRelationship)
	case RuleSelf:
		if !f.IsSelf {
			return deny(ReasonDenyNoRelationship)
		}
		if !onlyTouchesAny(delta, entities.FieldName, entities.FieldEmail) {
			return deny(ReasonDenyFieldScope)
		}
		return allow(ReasonAllowSelf)
	default:
		return deny(ReasonDenyUnknownPolicy)
	}
}

// onlyTouchesAny reports whether delta is non-empty and every entry is one of fields.
func onlyTouchesAny(delta []string, fields ...string) bool {
	if len(delta) == 0 {
		return false
	}
	for _, f := range delta {
		if !touchesAny([]string{f}, fields...) {
			return false
		}
	}
	return true
}

// onlyTouches reports whether delta is non-empty and every entry equals field.
func onlyTouches(delta []string, field string) bool {
	if len(delta) == 0 {
		return false
	}
	for _, f := range delta {
		if f != field {
			return false
		}
	}
	return true
}

func touchesAny(delta []string, fields ...string) bool {
	for _, f := range delta {
		for _, want := range fields {
			if f == want {
				return true
			}
		}
	}
	return false
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }
