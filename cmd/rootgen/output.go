package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/rootgen/domain"
	"github.com/eth2030/rootgen/evaldomain"
)

// report is the rendered form of a derivation.
type report struct {
	Modulus       string   `json:"modulus"`
	Factorization string   `json:"factorization"`
	Order         uint64   `json:"order"`
	Generator     string   `json:"generator"`
	Root          string   `json:"root"`
	RootInverse   string   `json:"rootInverse"`
	OrderInverse  string   `json:"orderInverse"`
	Digest        string   `json:"digest"`
	CheckedBy     []string `json:"checkedBy"`
	Table         []string `json:"table,omitempty"`

	// Metrics is the registry snapshot, embedded in JSON output when
	// metrics are enabled.
	Metrics map[string]interface{} `json:"metrics,omitempty"`
}

func newReport(res *domain.Result, ed *evaldomain.Domain, withTable bool) report {
	digest := res.Table.Digest()
	r := report{
		Modulus:       hexutil.EncodeBig(res.Modulus),
		Factorization: res.Factorization.String(),
		Order:         res.Order,
		Generator:     res.Generator.String(),
		Root:          hexutil.EncodeBig(res.Root),
		RootInverse:   hexutil.EncodeBig(ed.GeneratorInv()),
		OrderInverse:  hexutil.EncodeBig(ed.CardinalityInv()),
		Digest:        hexutil.Encode(digest[:]),
		CheckedBy:     res.CheckedBy,
	}
	if r.CheckedBy == nil {
		r.CheckedBy = []string{}
	}
	if withTable {
		r.Table = res.Table.Hex()
	}
	return r
}

func writeReport(w io.Writer, format string, r report) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "modulus:\t%s\n", r.Modulus)
	fmt.Fprintf(tw, "factorization:\t%s\n", r.Factorization)
	fmt.Fprintf(tw, "order:\t%d\n", r.Order)
	fmt.Fprintf(tw, "generator:\t%s\n", r.Generator)
	fmt.Fprintf(tw, "root:\t%s\n", r.Root)
	fmt.Fprintf(tw, "root inverse:\t%s\n", r.RootInverse)
	fmt.Fprintf(tw, "order inverse:\t%s\n", r.OrderInverse)
	fmt.Fprintf(tw, "digest:\t%s\n", r.Digest)
	if len(r.CheckedBy) > 0 {
		fmt.Fprintf(tw, "checked by:\t%s\n", strings.Join(r.CheckedBy, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for i, v := range r.Table {
		if _, err := fmt.Fprintf(w, "w^%d = %s\n", i, v); err != nil {
			return err
		}
	}
	return nil
}
