package sweep

import (
	"sort"
	"time"

	"cargosweep/internal/fingerprint"
)

// Decision is one policy verdict for a group.
type Decision struct {
	Group  fingerprint.ArtifactGroup
	Remove bool
	// Policy names the policy that produced the verdict.
	Policy string
}

// Policy selects which artifact groups to remove. Policies never touch the
// filesystem; they only classify.
type Policy interface {
	Name() string
	Evaluate(groups []fingerprint.ArtifactGroup) []Decision
}

// AgePolicy removes every group last built strictly before Cutoff. A group
// exactly at the cutoff is kept.
type AgePolicy struct {
	Cutoff time.Time
}

func (AgePolicy) Name() string { return "age" }

func (p AgePolicy) Evaluate(groups []fingerprint.ArtifactGroup) []Decision {
	decisions := make([]Decision, len(groups))
	for i, group := range groups {
		decisions[i] = Decision{
			Group:  group,
			Remove: group.Unit.LastModified.Before(p.Cutoff),
			Policy: p.Name(),
		}
	}
	return decisions
}

// ToolchainPolicy removes every group whose toolchain is resolved and not
// in the keep-set. Units with an unresolved toolchain are always kept:
// absence of evidence never triggers deletion under this policy.
type ToolchainPolicy struct {
	Keep map[string]struct{}
}

// NewToolchainPolicy builds a policy from a list of toolchain names.
func NewToolchainPolicy(keep []string) ToolchainPolicy {
	set := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		set[name] = struct{}{}
	}
	return ToolchainPolicy{Keep: set}
}

func (ToolchainPolicy) Name() string { return "toolchain" }

func (p ToolchainPolicy) Evaluate(groups []fingerprint.ArtifactGroup) []Decision {
	decisions := make([]Decision, len(groups))
	for i, group := range groups {
		remove := false
		if tc := group.Unit.Toolchain; tc != fingerprint.ToolchainUnknown {
			_, keep := p.Keep[tc]
			remove = !keep
		}
		decisions[i] = Decision{Group: group, Remove: remove, Policy: p.Name()}
	}
	return decisions
}

// SizePolicy removes the oldest groups first until the remaining total is
// at or under Budget. Groups sharing a timestamp are taken in unit-ID
// order so repeated runs pick the same prefix.
type SizePolicy struct {
	Budget uint64
}

func (SizePolicy) Name() string { return "size" }

func (p SizePolicy) Evaluate(groups []fingerprint.ArtifactGroup) []Decision {
	decisions := make([]Decision, len(groups))
	var total uint64
	for i, group := range groups {
		decisions[i] = Decision{Group: group, Remove: false, Policy: p.Name()}
		total += group.TotalSize
	}
	if total <= p.Budget {
		return decisions
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ga, gb := groups[order[a]].Unit, groups[order[b]].Unit
		if ga.LastModified.Equal(gb.LastModified) {
			return ga.ID < gb.ID
		}
		return ga.LastModified.Before(gb.LastModified)
	})

	remaining := total
	for _, idx := range order {
		if remaining <= p.Budget {
			break
		}
		decisions[idx].Remove = true
		remaining -= groups[idx].TotalSize
	}
	return decisions
}
