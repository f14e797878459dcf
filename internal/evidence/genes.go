package evidence

// GeneContext carries the static gene-membership tables the criteria
// consult. It is built once from configuration and passed by value;
// callers must not mutate it after construction.
type GeneContext struct {
	lofIntolerant       map[string]bool
	missenseConstrained map[string]bool
	truncatingMechanism map[string]bool
}

// NewGeneContext builds a gene context from membership lists.
func NewGeneContext(lofIntolerant, missenseConstrained, truncatingMechanism []string) GeneContext {
	return GeneContext{
		lofIntolerant:       toSet(lofIntolerant),
		missenseConstrained: toSet(missenseConstrained),
		truncatingMechanism: toSet(truncatingMechanism),
	}
}

func toSet(genes []string) map[string]bool {
	s := make(map[string]bool, len(genes))
	for _, g := range genes {
		s[g] = true
	}
	return s
}

// LoFIntolerant reports whether loss of function is a known disease
// mechanism for the gene.
func (g GeneContext) LoFIntolerant(gene string) bool {
	return g.lofIntolerant[gene]
}

// MissenseConstrained reports whether the gene has a low rate of benign
// missense variation.
func (g GeneContext) MissenseConstrained(gene string) bool {
	return g.missenseConstrained[gene]
}

// TruncatingMechanism reports whether truncating variants are the only
// known disease mechanism for the gene.
func (g GeneContext) TruncatingMechanism(gene string) bool {
	return g.truncatingMechanism[gene]
}
