// Package schema holds the per-module field metadata the codec and the
// client consult. A Registry is built once by Load and is read-only after.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/rubyzoho/zohocrm.go/pkg/constants"
	"github.com/rubyzoho/zohocrm.go/pkg/models"
)

// Source describes the fields of one module.
type Source interface {
	Describe(ctx context.Context, module string) ([]models.FieldDescriptor, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, module string) ([]models.FieldDescriptor, error)

func (f SourceFunc) Describe(ctx context.Context, module string) ([]models.FieldDescriptor, error) {
	return f(ctx, module)
}

type moduleFields struct {
	ordered []models.FieldDescriptor
	byKey   map[string]models.FieldDescriptor
}

// Registry maps module names to their ordered field descriptors.
type Registry struct {
	modules []string
	fields  map[string]moduleFields
}

// Load describes every module through src. Field keys are normalised and
// duplicate keys keep their first occurrence.
func Load(ctx context.Context, src Source, modules []string) (*Registry, error) {
	r := &Registry{fields: make(map[string]moduleFields, len(modules))}
	for _, module := range modules {
		if _, seen := r.fields[module]; seen {
			continue
		}
		descriptors, err := src.Describe(ctx, module)
		if err != nil {
			return nil, &LoadError{Module: module, Err: err}
		}
		r.modules = append(r.modules, module)
		r.fields[module] = index(descriptors)
	}
	return r, nil
}

func index(descriptors []models.FieldDescriptor) moduleFields {
	mf := moduleFields{byKey: make(map[string]models.FieldDescriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Name == "" && d.Key == "" {
			continue
		}
		if d.Name == "" {
			d.Name = models.WireName(d.Key)
		}
		d.Key = models.Key(d.Name)
		if d.Type == "" {
			d.Type = models.TypeText
		}
		if _, dup := mf.byKey[d.Key]; dup {
			continue
		}
		mf.byKey[d.Key] = d
		mf.ordered = append(mf.ordered, d)
	}
	return mf
}

// Modules returns the loaded module names in load order.
func (r *Registry) Modules() []string {
	return append([]string(nil), r.modules...)
}

// Has reports whether module was loaded.
func (r *Registry) Has(module string) bool {
	_, ok := r.fields[module]
	return ok
}

// FieldsOf returns a copy of module's descriptors in declaration order.
func (r *Registry) FieldsOf(module string) ([]models.FieldDescriptor, error) {
	mf, ok := r.fields[module]
	if !ok {
		return nil, &UnknownModuleError{Module: module}
	}
	return append([]models.FieldDescriptor(nil), mf.ordered...), nil
}

// Field looks up a field of module by key or wire name.
func (r *Registry) Field(module, field string) (models.FieldDescriptor, bool) {
	mf, ok := r.fields[module]
	if !ok {
		return models.FieldDescriptor{}, false
	}
	d, ok := mf.byKey[models.Key(field)]
	return d, ok
}

// WireName returns the canonical wire name for key, falling back to
// [models.WireName] for fields without metadata.
func (r *Registry) WireName(module, key string) string {
	if d, ok := r.Field(module, key); ok {
		return d.Name
	}
	return models.WireName(key)
}

// LoadError reports the module whose metadata could not be fetched.
type LoadError struct {
	Module string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", constants.ErrSchemaLoad, e.Module, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{constants.ErrSchemaLoad, e.Err}
}

// UnknownModuleError is returned for modules the registry never loaded.
type UnknownModuleError struct {
	Module string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("%s: %q", constants.ErrUnknownModule, e.Module)
}

func (e *UnknownModuleError) Is(target error) bool {
	return target == constants.ErrUnknownModule
}

// Dedup returns modules without repeats, keeping first occurrences, with
// surrounding whitespace removed and empty names dropped.
func Dedup(modules ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range modules {
		for _, m := range list {
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
