// Package ptr converts values to pointers for optional struct fields.
package ptr

func ToString(v string) *string { return &v }

func ToBool(v bool) *bool { return &v }

// StringOr dereferences v, returning fallback when v is nil.
func StringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
