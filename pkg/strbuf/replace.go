package strbuf

// Pair maps a literal pattern to the text that replaces it.
type Pair struct {
	Pattern     string `json:"pattern" mapstructure:"pattern"`
	Replacement string `json:"replacement" mapstructure:"replacement"`
}

// Replace substitutes every occurrence of the pairs' patterns, scanning left to
// right. At each position the pairs are tried in order and the first match
// wins; replacement text is never scanned again. The new content is built in
// separate storage and only installed once complete.
func (b *Buffer) Replace(pairs []Pair) error {
	if b.failed {
		return ErrOOM
	}
	for _, p := range pairs {
		if p.Pattern == "" {
			return ErrEmptyPattern
		}
	}
	src := b.ptr[:b.size]

	n, matched := 0, false
	for i := 0; i < len(src); {
		if k := matchAt(src, i, pairs); k >= 0 {
			n += len(pairs[k].Replacement)
			i += len(pairs[k].Pattern)
			matched = true
			continue
		}
		n++
		i++
	}
	if !matched {
		return nil
	}

	out, err := b.scratch(n)
	if err != nil {
		return err
	}
	w := 0
	for i := 0; i < len(src); {
		if k := matchAt(src, i, pairs); k >= 0 {
			w += copy(out[w:], pairs[k].Replacement)
			i += len(pairs[k].Pattern)
			continue
		}
		out[w] = src[i]
		w++
		i++
	}
	b.install(out, w)
	return nil
}

// ReplaceAll is Replace with pattern/replacement arguments given as a flat
// list, like strings.NewReplacer. An odd trailing pattern is ignored.
func (b *Buffer) ReplaceAll(oldnew ...string) error {
	pairs := make([]Pair, 0, len(oldnew)/2)
	for i := 0; i+1 < len(oldnew); i += 2 {
		pairs = append(pairs, Pair{Pattern: oldnew[i], Replacement: oldnew[i+1]})
	}
	return b.Replace(pairs)
}

func matchAt(src []byte, i int, pairs []Pair) int {
	for k, p := range pairs {
		if len(src)-i >= len(p.Pattern) && string(src[i:i+len(p.Pattern)]) == p.Pattern {
			return k
		}
	}
	return -1
}
