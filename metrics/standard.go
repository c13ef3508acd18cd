package metrics

// Pre-defined metrics for the derivation pipeline. They live in
// DefaultRegistry so every package can reach them without plumbing.

var (
	// Derivations counts successful root-of-unity derivations.
	Derivations = DefaultRegistry.Counter("domain.derivations")
	// DerivationFailures counts derivations that ended in an error.
	DerivationFailures = DefaultRegistry.Counter("domain.failures")
	// DeriveTime records end-to-end derivation time in microseconds.
	DeriveTime = DefaultRegistry.Histogram("domain.derive_us")
	// FactorTime records time spent factoring p-1 in microseconds.
	FactorTime = DefaultRegistry.Histogram("numtheory.factor_us")

	// DomainOrder is the order N of the last derived root of unity.
	DomainOrder = DefaultRegistry.Gauge("domain.order")
	// Generator is the last primitive root found, when it fits in int64.
	Generator = DefaultRegistry.Gauge("domain.generator")
	// CrossChecks counts backend cross-checks that passed.
	CrossChecks = DefaultRegistry.Counter("field.cross_checks")
)
