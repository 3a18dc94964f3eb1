package hcl_adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/iconpipe/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The decoder populates omitted optional expression fields with
// zero-width placeholders, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// listAttribute evaluates a list attribute into its comma separated form.
// Strings pass through unchanged; lists and tuples are converted to lists of
// strings and joined.
func listAttribute(ctx context.Context, evalCtx *hcl.EvalContext, expr hcl.Expression, attrName string) (string, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return "", nil
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return "", nil
	}
	if !val.IsWhollyKnown() {
		return "", fmt.Errorf("%s must be known when the configuration is loaded", attrName)
	}

	ty := val.Type()
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		list, err := convert.Convert(val, cty.List(cty.String))
		if err != nil {
			return "", fmt.Errorf("%s must be a list of strings: %w", attrName, err)
		}
		var parts []string
		for it := list.ElementIterator(); it.Next(); {
			_, el := it.Element()
			if el.IsNull() {
				return "", fmt.Errorf("%s must not contain null elements", attrName)
			}
			s := el.AsString()
			if strings.Contains(s, ",") {
				return "", fmt.Errorf("%s element %q must not contain a comma", attrName, s)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%s must be a string or a list of strings: %w", attrName, err)
	}
	return str.AsString(), nil
}
