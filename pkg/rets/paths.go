package rets

import "github.com/jkestr/rechanize/pkg/rets/delim"

// The RETS methods this client knows how to use. A login response lists
// many more (Logout, Update, ChangePassword...) and those are ignored.
const (
	MethodSearch      = "Search"
	MethodGetObject   = "GetObject"
	MethodLogin       = "Login"
	MethodGetMetadata = "GetMetadata"
)

// KnownMethods is the default set of methods a PathTable accepts.
var KnownMethods = []string{MethodSearch, MethodGetObject, MethodLogin, MethodGetMetadata}

// PathTable maps a method name to the absolute URL the server advertised
// for it at login. It is replaced as a whole on every Set, never merged.
type PathTable struct {
	base    *LoginURL
	known   map[string]bool
	methods []string
	urls    map[string]string
}

// NewPathTable creates an empty table whose URLs are rooted at base. When no
// methods are given KnownMethods is used.
func NewPathTable(base *LoginURL, methods ...string) *PathTable {
	if len(methods) == 0 {
		methods = KnownMethods
	}

	known := make(map[string]bool, len(methods))
	for _, m := range methods {
		known[m] = true
	}

	return &PathTable{
		base:  base,
		known: known,
		urls:  make(map[string]string),
	}
}

// IsKnown reports whether the table accepts method.
func (t *PathTable) IsKnown(method string) bool {
	return t.known[method]
}

// Set clears the table, then stores an absolute URL for every discovered
// pair naming a known method. It returns the accepted method names in the
// order they were discovered. If any accepted path is not absolute the table
// is left empty and an ErrInvalidPath is returned.
func (t *PathTable) Set(discovered []delim.Pair) ([]string, error) {
	t.clear()

	urls := make(map[string]string)
	var accepted []string

	for _, p := range discovered {
		if !t.IsKnown(p.Key) {
			continue
		}

		abs, err := t.base.Absolute(p.Value)
		if err != nil {
			return nil, err
		}

		if _, seen := urls[p.Key]; !seen {
			accepted = append(accepted, p.Key)
		}
		urls[p.Key] = abs
	}

	t.urls = urls
	t.methods = accepted

	return accepted, nil
}

// Get returns the absolute URL for method. A method the server didn't
// advertise is not an error, ok is just false.
func (t *PathTable) Get(method string) (url string, ok bool) {
	url, ok = t.urls[method]
	return url, ok
}

// Methods returns the method names currently stored, in discovery order.
func (t *PathTable) Methods() []string {
	return append([]string(nil), t.methods...)
}

func (t *PathTable) Len() int {
	return len(t.urls)
}

func (t *PathTable) clear() {
	t.urls = make(map[string]string)
	t.methods = nil
}
