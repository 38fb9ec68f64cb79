package strbuf

// ShellQuote rewrites the content as a single POSIX shell word wrapped in
// single quotes. Single quotes and '!' are emitted backslash-escaped outside
// the quoted run so that neither quoting nor history expansion can trip over
// them. Runs of such characters share one pair of quote boundaries:
//
//	file'name  ->  'file'\''name'
//	a'!b       ->  'a'\'\!'b'
func (b *Buffer) ShellQuote() error {
	if b.failed {
		return ErrOOM
	}
	src := b.ptr[:b.size]

	out, err := b.scratch(quotedLen(src))
	if err != nil {
		return err
	}
	w := 0
	emit := func(c byte) {
		out[w] = c
		w++
	}

	emit('\'')
	quoted := true
	for _, c := range src {
		if needsEscape(c) {
			if quoted {
				emit('\'')
				quoted = false
			}
			emit('\\')
			emit(c)
			continue
		}
		if !quoted {
			emit('\'')
			quoted = true
		}
		emit(c)
	}
	if !quoted {
		emit('\'')
	}
	emit('\'')

	b.install(out, w)
	return nil
}

func needsEscape(c byte) bool {
	return c == '\'' || c == '!'
}

// quotedLen returns the exact length ShellQuote produces for src.
func quotedLen(src []byte) int {
	n := 2
	quoted := true
	for _, c := range src {
		if needsEscape(c) {
			if quoted {
				n++
				quoted = false
			}
			n += 2
			continue
		}
		if !quoted {
			n++
			quoted = true
		}
		n++
	}
	if !quoted {
		n++
	}
	return n
}
