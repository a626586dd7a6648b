// Package model defines the render tree consumed by views. A tree lists one
// Field per renderable property in declaration order; each field carries its
// dotted path, classified shape, current value, and (for unions) the variant
// names plus the selected one. Optional and union fields expose the control
// for their current value through Inner, objects expose their properties
// through Nested. Builders reside in internal/model but return the types
// defined here.
package model
