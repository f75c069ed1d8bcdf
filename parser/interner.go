package parser

// Interner deduplicates strings that repeat throughout a journal, such as account
// names and currencies, so every occurrence shares one backing string. A single
// Interner may be shared by the parses of a journal and all of its includes.
// It is not safe for concurrent use.
type Interner struct {
	pool map[string]string
}

// NewInterner creates an interner with room for capacity strings.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical instance of s.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// Size returns the number of distinct strings seen.
func (i *Interner) Size() int {
	return len(i.pool)
}
