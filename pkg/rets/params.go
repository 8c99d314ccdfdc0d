package rets

import (
	"fmt"
	"strings"
)

// Param is a single query string option.
type Param struct {
	Key   string
	Value string
}

// Params are extra query string options for a request. Unlike url.Values
// they keep insertion order and are written without escaping, RETS servers
// expect the DMQL exactly as typed.
type Params struct {
	list []Param
}

func NewParams() *Params {
	return &Params{}
}

// Set stores value under key and returns p. Replacing an existing key keeps
// its position. On a nil p a new Params is allocated and returned, so
// p = p.Set(...) works on a nil value.
func (p *Params) Set(key string, value any) *Params {
	if p == nil {
		p = &Params{}
	}

	v := fmt.Sprint(value)
	for i := range p.list {
		if p.list[i].Key == key {
			p.list[i].Value = v
			return p
		}
	}

	p.list = append(p.list, Param{Key: key, Value: v})
	return p
}

func (p *Params) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}

	for _, param := range p.list {
		if param.Key == key {
			return param.Value, true
		}
	}

	return "", false
}

func (p *Params) Delete(key string) {
	if p == nil {
		return
	}

	for i, param := range p.list {
		if param.Key == key {
			p.list = append(p.list[:i], p.list[i+1:]...)
			return
		}
	}
}

func (p *Params) Len() int {
	if p == nil {
		return 0
	}

	return len(p.list)
}

func (p *Params) Clone() *Params {
	c := &Params{}
	if p != nil {
		c.list = append(c.list, p.list...)
	}

	return c
}

// Encode joins the params as key=value pairs separated by &.
func (p *Params) Encode() string {
	if p == nil {
		return ""
	}

	pairs := make([]string, 0, len(p.list))
	for _, param := range p.list {
		pairs = append(pairs, param.Key+"="+param.Value)
	}

	return strings.Join(pairs, "&")
}
