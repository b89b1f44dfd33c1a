package matrix

// Rules is the admission policy deciding which mode family benchmarks a
// query.
//
// Queries expecting at most SingleShotMax matches are benchmarked by the
// single-shot family (oneshot, prebuilt). Their match, if any, sits at the
// end of the corpus, so one search scans the whole haystack. Queries with
// more matches are benchmarked by the iteration family (oneshotiter,
// prebuiltiter). Both families read the same threshold, so every query
// lands in exactly one of them.
type Rules struct {
	SingleShotMax int
}

// DefaultRules admits single-shot benchmarks for queries with zero or one
// match.
var DefaultRules = Rules{SingleShotMax: 1}

type family struct {
	name  string
	modes [2]Mode
	admit func(r Rules, q *Query) bool
}

var families = [...]family{
	{
		name:  "single-shot",
		modes: [2]Mode{OneShot, Prebuilt},
		admit: func(r Rules, q *Query) bool { return q.Count <= r.SingleShotMax },
	},
	{
		name:  "iteration",
		modes: [2]Mode{OneShotIter, PrebuiltIter},
		admit: func(r Rules, q *Query) bool { return q.Count > r.SingleShotMax },
	},
}

// Admits reports whether r generates mode m benchmarks for q.
func (r Rules) Admits(m Mode, q Query) bool {
	for i := range families {
		f := &families[i]
		if f.modes[0] == m || f.modes[1] == m {
			return f.admit(r, &q)
		}
	}
	return false
}

// Family returns the name of the mode family r assigns q to.
func (r Rules) Family(q Query) string {
	for i := range families {
		if families[i].admit(r, &q) {
			return families[i].name
		}
	}
	return ""
}
