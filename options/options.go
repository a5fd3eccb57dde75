// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package options implements a typed option set: each option carries a
// name, description, default, current value, configured flag, and an
// optional change callback, expressed as a Go interface with concrete
// variants per kind instead of a virtual validate/syntax hierarchy.
package options

import (
	"fmt"
	"strconv"
)

// Option is one user-configurable value.
type Option interface {
	Name() string
	Description() string
	Default() string
	Value() string
	Configured() bool
	// Set parses and validates val, updating the option's current value.
	// An empty string resets the option to its default.
	Set(val string) error
	// OnChange registers a callback invoked after every successful Set.
	OnChange(fn func(Option))
	reset()
}

type base struct {
	name, description, defaultValue, value string
	configured bool
	callbacks []func(Option)
}

func (o *base) Name() string { return o.name }
func (o *base) Description() string { return o.description }
func (o *base) Default() string { return o.defaultValue }
func (o *base) Value() string { return o.value }
func (o *base) Configured() bool { return o.configured }
func (o *base) OnChange(fn func(Option)) { o.callbacks = append(o.callbacks, fn) }

func (o *base) notify(self Option) {
	for _, cb := range o.callbacks {
		cb(self)
	}
}

// StringOption holds an arbitrary string value.
type StringOption struct{ base }

func NewString(name, description, def string) *StringOption {
	return &StringOption{base{name: name, description: description, defaultValue: def, value: def}}
}

func (o *StringOption) Set(val string) error {
	if val == "" {
		o.reset()
	} else {
		o.value = val
		o.configured = true
	}
	o.notify(o)
	return nil
}
func (o *StringOption) reset() { o.value = o.defaultValue; o.configured = false }

// BoolOption holds "true"/"false".
type BoolOption struct{ base }

func NewBool(name, description string, def bool) *BoolOption {
	return &BoolOption{base{name: name, description: description, defaultValue: strconv.FormatBool(def), value: strconv.FormatBool(def)}}
}

func (o *BoolOption) Set(val string) error {
	if val == "" {
		o.reset()
		o.notify(o)
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("option %q: invalid bool %q: %w", o.name, val, err)
	}
	o.value = strconv.FormatBool(b)
	o.configured = true
	o.notify(o)
	return nil
}
func (o *BoolOption) reset() { o.value = o.defaultValue; o.configured = false }
func (o *BoolOption) Bool() bool { b, _ := strconv.ParseBool(o.value); return b }

// EnumOption holds a string drawn from a fixed allowed set.
type EnumOption struct {
	base
	allowed []string
}

func NewEnum(name, description, def string, allowed []string) *EnumOption {
	return &EnumOption{base{name: name, description: description, defaultValue: def, value: def}, allowed}
}

func (o *EnumOption) Set(val string) error {
	if val == "" {
		o.reset()
		o.notify(o)
		return nil
	}
	for _, a := range o.allowed {
		if a == val {
			o.value = val
			o.configured = true
			o.notify(o)
			return nil
		}
	}
	return fmt.Errorf("option %q: %q is not one of %v", o.name, val, o.allowed)
}
func (o *EnumOption) reset() { o.value = o.defaultValue; o.configured = false }

// IntOption holds an integer within [min, max], with optional string
// synonyms for specific values.
type IntOption struct {
	base
	min, max int
	synonyms map[string]int
}

func NewInt(name, description string, def, min, max int, synonyms map[string]int) *IntOption {
	return &IntOption{base{name: name, description: description, defaultValue: strconv.Itoa(def), value: strconv.Itoa(def)}, min, max, synonyms}
}

func (o *IntOption) Set(val string) error {
	if val == "" {
		o.reset()
		o.notify(o)
		return nil
	}
	if n, ok := o.synonyms[val]; ok {
		o.value = strconv.Itoa(n)
		o.configured = true
		o.notify(o)
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("option %q: invalid int %q: %w", o.name, val, err)
	}
	if n < o.min || n > o.max {
		return fmt.Errorf("option %q: %d out of range [%d, %d]", o.name, n, o.min, o.max)
	}
	o.value = strconv.Itoa(n)
	o.configured = true
	o.notify(o)
	return nil
}
func (o *IntOption) reset() { o.value = o.defaultValue; o.configured = false }
func (o *IntOption) Int() int { n, _ := strconv.Atoi(o.value); return n }

// RealOption holds a float64 within [min, max], with optional string
// synonyms.
type RealOption struct {
	base
	min, max float64
	synonyms map[string]float64
}

func NewReal(name, description string, def, min, max float64, synonyms map[string]float64) *RealOption {
	return &RealOption{base{name: name, description: description, defaultValue: strconv.FormatFloat(def, 'g', -1, 64), value: strconv.FormatFloat(def, 'g', -1, 64)}, min, max, synonyms}
}

func (o *RealOption) Set(val string) error {
	if val == "" {
		o.reset()
		o.notify(o)
		return nil
	}
	if n, ok := o.synonyms[val]; ok {
		o.value = strconv.FormatFloat(n, 'g', -1, 64)
		o.configured = true
		o.notify(o)
		return nil
	}
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("option %q: invalid real %q: %w", o.name, val, err)
	}
	if n < o.min || n > o.max {
		return fmt.Errorf("option %q: %g out of range [%g, %g]", o.name, n, o.min, o.max)
	}
	o.value = strconv.FormatFloat(n, 'g', -1, 64)
	o.configured = true
	o.notify(o)
	return nil
}
func (o *RealOption) reset() { o.value = o.defaultValue; o.configured = false }
func (o *RealOption) Real() float64 { n, _ := strconv.ParseFloat(o.value, 64); return n }

// Set is an insertion-ordered map from option name to Option.
type Set struct {
	order []string
	byName map[string]Option
}

// NewSet returns an empty option set.
func NewSet() *Set { return &Set{byName: make(map[string]Option)} }

// Add registers an option, preserving insertion order.
func (s *Set) Add(o Option) {
	if _, exists := s.byName[o.Name()]; !exists {
		s.order = append(s.order, o.Name())
	}
	s.byName[o.Name()] = o
}

// Get looks up an option by name.
func (s *Set) Get(name string) (Option, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// Names returns option names in insertion order.
func (s *Set) Names() []string { return s.order }

// Help renders a human-readable dump of every option: name, description,
// default, and current value.
func (s *Set) Help() string {
	out := ""
	for _, n := range s.order {
		o := s.byName[n]
		out += fmt.Sprintf("%s: %s (default %q, current %q)\n", o.Name(), o.Description(), o.Default(), o.Value())
	}
	return out
}

// UpdateFrom copies every option present in both sets' current values
// from other into s.
func (s *Set) UpdateFrom(other *Set) {
	for _, n := range other.order {
		if mine, ok := s.byName[n]; ok {
			_ = mine.Set(other.byName[n].Value())
		}
	}
}

// Reset restores every option in the set to its default.
func (s *Set) Reset() {
	for _, n := range s.order {
		_ = s.byName[n].Set("")
	}
}
