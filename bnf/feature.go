package bnf

// Feature is an opaque constraint value attached to a production and carried
// along by every Earley state derived from it. Features let a grammar encode
// semantic agreement (number, case, dialect version, …) that context-free
// rules alone cannot express.
//
// Merge combines the feature already carried by a state with the feature
// produced by completing symbol number fromIndex of that state's production.
// It must be total: it never panics and never blocks, it either returns a
// combined Feature and true, or it returns Incompatible and false. Returning
// false marks the derivation as dead without aborting recognition of sibling
// derivations (spec.md §3, "Feature propagation"). NoFeature is the one
// exception: it hands other back unchanged with true, so merging it with
// Incompatible yields Incompatible and true. The recognizer therefore treats
// an Incompatible result as a failed merge whatever the boolean says.
type Feature interface {
	Merge(fromIndex int, other Feature) (Feature, bool)
}

// NoFeature is the default, unconstrained Feature: it merges with anything,
// always reports true, and the merge result is other itself (NoFeature when
// other is nil). Productions that don't set an explicit Feature carry
// NoFeature.
type NoFeature struct{}

// Merge implements Feature.
func (NoFeature) Merge(_ int, other Feature) (Feature, bool) {
	if other == nil {
		return NoFeature{}, true
	}
	return other, true
}

type incompatibleFeature struct{}

// Merge implements Feature. Incompatible is absorbing: once a derivation
// carries it, every further merge stays Incompatible.
func (incompatibleFeature) Merge(int, Feature) (Feature, bool) {
	return Incompatible, false
}

// Incompatible is the sentinel Feature value signalling that two derivations
// cannot be reconciled. Grammar authors never construct it directly; it is
// returned by Merge implementations and by Incompatible.Merge itself.
var Incompatible Feature = incompatibleFeature{}

// IsIncompatible reports whether f is the Incompatible sentinel.
func IsIncompatible(f Feature) bool {
	_, ok := f.(incompatibleFeature)
	return ok
}
