// Package delim splits the delimiter framed text RETS servers send back: the
// key=value block in a login response, the parameters of a content-type
// header, and the header block of each multipart part.
package delim

import "strings"

// Pair is a single key/value split out of a line.
type Pair struct {
	Key   string
	Value string
}

// Multisplit breaks text into lines on lineSep and cuts each line at the
// first pairSep. Lines that don't contain pairSep, or whose key is blank,
// are dropped. Servers pad these blocks with whitespace and carriage returns
// so both halves are trimmed.
func Multisplit(text, lineSep, pairSep string) []Pair {
	var pairs []Pair

	for _, line := range strings.Split(text, lineSep) {
		key, value, found := strings.Cut(line, pairSep)
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		pairs = append(pairs, Pair{Key: key, Value: strings.TrimSpace(value)})
	}

	return pairs
}

// ToMap collapses pairs into a map. When a key repeats the last pair wins.
func ToMap(pairs []Pair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}

	return m
}

// Zip pairs keys[i] with values[i], stopping at the shorter of the two.
func Zip(keys, values []string) []Pair {
	n := min(len(keys), len(values))
	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Pair{Key: keys[i], Value: values[i]})
	}

	return pairs
}

// ZipToMap is Zip followed by ToMap.
func ZipToMap(keys, values []string) map[string]string {
	return ToMap(Zip(keys, values))
}

// Filter returns the pairs for which keep returns true, preserving order.
func Filter(pairs []Pair, keep func(p Pair) bool) []Pair {
	var kept []Pair
	for _, p := range pairs {
		if keep(p) {
			kept = append(kept, p)
		}
	}

	return kept
}
