package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/rootgen/field"
	"github.com/eth2030/rootgen/log"
	"github.com/eth2030/rootgen/metrics"
	"github.com/eth2030/rootgen/numtheory"
)

// Result is the output of a successful derivation.
type Result struct {
	Modulus       *big.Int
	Order         uint64
	Factorization numtheory.Factorization
	Generator     *big.Int
	Root          *big.Int
	Table         PowerTable

	// CheckedBy lists the backends whose recomputed table matched.
	CheckedBy []string
	Elapsed   time.Duration
}

// Deriver runs the root-of-unity pipeline. The zero value is not usable;
// construct one with NewDeriver.
type Deriver struct {
	log      *log.Logger
	backends []field.Backend
	strict   bool
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithLogger sets the logger. The Deriver logs under module "domain".
func WithLogger(l *log.Logger) Option {
	return func(d *Deriver) {
		if l != nil {
			d.log = l.Module("domain")
		}
	}
}

// WithBackends adds field backends that recompute the power table after
// verification. Backends that do not support the modulus are skipped
// unless WithStrictBackends is set.
func WithBackends(b ...field.Backend) Option {
	return func(d *Deriver) { d.backends = append(d.backends, b...) }
}

// WithStrictBackends makes an unsupported backend a verification failure
// instead of a skip.
func WithStrictBackends() Option {
	return func(d *Deriver) { d.strict = true }
}

// NewDeriver returns a Deriver with the given options applied.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{log: log.Default().Module("domain")}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive runs every stage for params and returns the verified result.
// Any failure aborts the run; no partial result is returned.
func (d *Deriver) Derive(params Params) (*Result, error) {
	timer := metrics.NewTimer(metrics.DeriveTime)
	res, err := d.derive(params)
	elapsed := timer.Stop()
	if err != nil {
		metrics.DerivationFailures.Inc()
		d.log.Error("Derivation failed", "order", params.Order, "err", err)
		return nil, err
	}
	res.Elapsed = elapsed
	metrics.Derivations.Inc()
	metrics.DomainOrder.Set(int64(res.Order))
	if res.Generator.IsInt64() {
		metrics.Generator.Set(res.Generator.Int64())
	}
	d.log.Info("Derived root of unity",
		"order", res.Order,
		"generator", res.Generator.String(),
		"root", hexutil.EncodeBig(res.Root),
		"elapsed", elapsed,
	)
	return res, nil
}

func (d *Deriver) derive(params Params) (*Result, error) {
	p := params.Modulus
	if err := ValidateModulus(p); err != nil {
		return nil, err
	}
	logger := d.log.With("bits", p.BitLen(), "order", params.Order)
	logger.Debug("Modulus is prime")

	// Reject a bad order before the primitive-root search does any work.
	if _, err := cofactor(p, params.Order); err != nil {
		return nil, err
	}

	f := params.Factorization
	if len(f) == 0 {
		timer := metrics.NewTimer(metrics.FactorTime)
		var err error
		f, err = FactorGroupOrder(p)
		timer.Stop()
		if err != nil {
			return nil, &ComputationError{Kind: ErrNoGeneratorFound, Cause: err}
		}
		logger.Debug("Factored group order", "factors", f.String())
	}

	g, err := FindPrimitiveRoot(p, f)
	if err != nil {
		return nil, err
	}
	logger.Debug("Found primitive root", "generator", g.String())

	w, err := DeriveRootOfUnity(g, p, params.Order)
	if err != nil {
		return nil, err
	}

	table, err := VerifyAndExpand(w, p, params.Order)
	if err != nil {
		return nil, err
	}
	logger.Debug("Verified root order", "entries", table.Len())

	checked, err := d.crossCheck(logger, table)
	if err != nil {
		return nil, err
	}

	return &Result{
		Modulus:       new(big.Int).Set(p),
		Order:         params.Order,
		Factorization: f,
		Generator:     g,
		Root:          w,
		Table:         table,
		CheckedBy:     checked,
	}, nil
}

// crossCheck recomputes the table with every backend. A strict backend
// that cannot handle p is a configuration problem; a backend that returns
// a different table fails with ErrBackendMismatch.
func (d *Deriver) crossCheck(logger *log.Logger, table PowerTable) ([]string, error) {
	var checked []string
	p := table.modulus
	for _, b := range d.backends {
		if !b.Supports(p) {
			if d.strict {
				return nil, &ConfigError{Kind: field.ErrUnsupportedModulus, Detail: "backend " + b.Name()}
			}
			logger.Debug("Skipping backend", "backend", b.Name())
			continue
		}
		if err := field.CrossCheck(b, table.root, p, table.entries); err != nil {
			return nil, &VerificationError{Kind: ErrBackendMismatch, Detail: "backend " + b.Name(), Cause: err}
		}
		metrics.CrossChecks.Inc()
		checked = append(checked, b.Name())
	}
	return checked, nil
}
