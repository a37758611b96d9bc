// SPDX-License-Identifier: MIT

package array

// Directive is the resolved (initializer, arguments, cookie) triple that
// builds one slot. Directives are mutable: providers may overwrite Args and
// Cookie and hand the same instance out again, so a returned Directive is
// only valid until the next call to the provider that produced it.
//
// Cookie is propagated as the child Context's cookie when the slot is itself
// a container.
type Directive struct {
	Init   *Initializer
	Args   []any
	Cookie any
}

// NewDirective returns a Directive for init with the given arguments.
func NewDirective(init *Initializer, args ...any) *Directive {
	return &Directive{Init: init, Args: args}
}

// reset clears arguments and cookie, keeping the Args backing array.
func (d *Directive) reset() {
	clear(d.Args)
	d.Args = d.Args[:0]
	d.Cookie = nil
}
