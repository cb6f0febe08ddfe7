package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/krigo/pkg/errors"
)

// ParseComposition interprets a kernel composition expression such as
//
//	k1(1-3)+k2(4-6)
//
// against a mapping of kernel name to Kernel instance. Each term binds a
// named kernel to a 1-indexed inclusive feature range; terms are joined by
// "+" or by plain juxtaposition. The parsed ranges must be pairwise
// disjoint and together cover exactly 1..nfeats, and each kernel's
// lengthscale count must match the width of its range.
func ParseComposition(expr string, kernels map[string]Kernel, nfeats int) (*Composite, error) {
	const section = "composition"

	if nfeats <= 0 {
		return nil, errors.NewModelParseError("", section, 0, fmt.Sprintf("number of features must be positive, got %d", nfeats))
	}

	terms, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, errors.NewModelParseError("", section, 0, "empty composition expression")
	}

	// coverage[d] remembers which term claimed feature d+1.
	coverage := make([]int, nfeats)
	for d := range coverage {
		coverage[d] = -1
	}

	segments := make([]segment, 0, len(terms))
	for ti, term := range terms {
		k, ok := kernels[term.name]
		if !ok {
			return nil, errors.NewModelParseError("", section, 0, fmt.Sprintf("kernel %q is not defined", term.name))
		}
		if term.lo < 1 || term.hi > nfeats || term.lo > term.hi {
			return nil, errors.NewModelParseError("", section, 0,
				fmt.Sprintf("range %d-%d of kernel %q is outside 1-%d", term.lo, term.hi, term.name, nfeats))
		}
		if width := term.hi - term.lo + 1; k.NDims() != width {
			return nil, errors.NewModelParseError("", section, 0,
				fmt.Sprintf("kernel %q has %d lengthscales but covers %d features", term.name, k.NDims(), width))
		}
		for d := term.lo - 1; d < term.hi; d++ {
			if prev := coverage[d]; prev >= 0 {
				return nil, errors.NewModelParseError("", section, 0,
					fmt.Sprintf("ranges %s(%d-%d) and %s(%d-%d) overlap at feature %d",
						terms[prev].name, terms[prev].lo, terms[prev].hi, term.name, term.lo, term.hi, d+1))
			}
			coverage[d] = ti
		}
		segments = append(segments, segment{
			name:   term.name,
			kernel: k,
			lo:     term.lo - 1,
			hi:     term.hi,
		})
	}

	for d, owner := range coverage {
		if owner < 0 {
			return nil, errors.NewModelParseError("", section, 0,
				fmt.Sprintf("feature %d is not covered by any kernel", d+1))
		}
	}

	return &Composite{segments: segments, nfeats: nfeats}, nil
}

// term is one name(lo-hi) element of a composition expression,
// with lo and hi still 1-indexed inclusive.
type term struct {
	name   string
	lo, hi int
}

func tokenize(expr string) ([]term, error) {
	const section = "composition"

	var terms []term
	rest := strings.TrimSpace(expr)
	for rest != "" {
		if rest[0] == '+' {
			rest = strings.TrimSpace(rest[1:])
			if rest == "" {
				return nil, errors.NewModelParseError("", section, 0, "trailing + in composition expression")
			}
			continue
		}

		open := strings.IndexByte(rest, '(')
		if open <= 0 {
			return nil, errors.NewModelParseError("", section, 0,
				fmt.Sprintf("malformed composition term near %q", rest))
		}
		closing := strings.IndexByte(rest, ')')
		if closing < open {
			return nil, errors.NewModelParseError("", section, 0,
				fmt.Sprintf("unclosed range in composition term near %q", rest))
		}

		name := strings.TrimSpace(rest[:open])
		lo, hi, err := parseRange(rest[open+1 : closing])
		if err != nil {
			return nil, errors.NewModelParseError("", section, 0,
				fmt.Sprintf("bad range in term %q: %v", rest[:closing+1], err))
		}

		terms = append(terms, term{name: name, lo: lo, hi: hi})
		rest = strings.TrimSpace(rest[closing+1:])
	}
	return terms, nil
}

func parseRange(s string) (lo, hi int, err error) {
	dash := strings.IndexByte(s, '-')
	if dash < 0 {
		// Single index, e.g. k1(3).
		lo, err = strconv.Atoi(strings.TrimSpace(s))
		return lo, lo, err
	}
	lo, err = strconv.Atoi(strings.TrimSpace(s[:dash]))
	if err != nil {
		return 0, 0, err
	}
	hi, err = strconv.Atoi(strings.TrimSpace(s[dash+1:]))
	return lo, hi, err
}
