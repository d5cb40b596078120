// Package service applies the marketplace's state transitions. Every
// operation takes the calling actor, checks role and ownership, validates the
// payload, then applies the transition with a guarded write.
package service

import (
	"maps"
	"strings"

	"github.com/hostelhub/hostel-api/internal/apperror"
	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/hostelhub/hostel-api/internal/validation"
)

func errForbidden() error {
	return apperror.Forbidden()
}

func requireRole(actor model.Actor, role model.Role) error {
	if !actor.Is(role) {
		return errForbidden()
	}
	return nil
}

func requireActive(actor model.Actor) error {
	if !actor.CanAct() {
		return errForbidden()
	}
	return nil
}

// fieldErrors collects struct-tag and hand-written checks into one
// validation error.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) check(v *validation.Validator, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	fields := apperror.FieldsOf(err)
	if fields == nil {
		return err
	}
	maps.Copy(f, fields)
	return nil
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperror.Validation("validation failed", f)
}

// validate runs the struct tags only.
func validate(v *validation.Validator, in any) error {
	f := fieldErrors{}
	if err := f.check(v, in); err != nil {
		return err
	}
	return f.err()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
