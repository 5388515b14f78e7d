package base

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// Violations converts a validation failure into an INVALID_ARGUMENT
// taxonomy error carrying one violation string per field in its context.
// A nil err returns nil so handlers can call it unconditionally after
// validation.ValidateStruct.
func Violations(err error) error {
	if err == nil {
		return nil
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return errcode.New(errcode.InvalidArgument, err.Error())
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var combined *multierror.Error
	violations := make([]string, 0, len(fields))
	for _, field := range fields {
		violations = append(violations, field+": "+errs[field].Error())
		combined = multierror.Append(combined, errs[field])
	}

	return errcode.New(errcode.InvalidArgument, "invalid arguments").
		WithContext("violations", violations).
		WithCause(combined.ErrorOrNil())
}
