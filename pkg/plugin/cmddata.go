package plugin

// CmdData is the call envelope passed between the host and a plugin (or
// between two plugins calling one another through the host). It carries a
// command's parameters and, after the callee returns, its results.
//
// Params and PtrParams are populated by the caller before dispatch;
// Returned and PtrReturned are populated by the callee before it returns.
// Failed signals that the callee considers the call unsuccessful — the
// host never infers failure from an empty Returned slice, since a
// legitimate zero-value result is indistinguishable from "nothing
// returned yet".
type CmdData struct {
	// Cmd is the command or callback name this envelope is addressed to.
	Cmd string

	// Params holds ordered string parameters supplied by the caller.
	Params []string

	// Returned holds ordered string results supplied by the callee.
	Returned []string

	// PtrParams holds ordered opaque values supplied by the caller. The
	// host never inspects these; it is a private calling convention
	// between the two plugins (or plugin and host) that agree on the
	// concrete type behind each slot.
	PtrParams []any

	// PtrReturned holds ordered opaque values supplied by the callee,
	// under the same opacity rule as PtrParams.
	PtrReturned []any

	// Failed is set by the callee to indicate the call did not succeed.
	Failed bool
}

// NewCmdData constructs an envelope addressed to cmd with the given
// string parameters. Opaque-pointer parameters, if any, are set directly
// on the returned value's PtrParams field.
func NewCmdData(cmd string, params ...string) *CmdData {
	return &CmdData{
		Cmd:    cmd,
		Params: params,
	}
}

// Param returns the i'th string parameter, or "" if out of range. Plugins
// commonly index fixed-position parameters this way rather than checking
// len(Params) at every call site.
func (c *CmdData) Param(i int) string {
	if i < 0 || i >= len(c.Params) {
		return ""
	}
	return c.Params[i]
}

// PtrParam returns the i'th opaque parameter, or nil if out of range.
func (c *CmdData) PtrParam(i int) any {
	if i < 0 || i >= len(c.PtrParams) {
		return nil
	}
	return c.PtrParams[i]
}

// Return appends a string result.
func (c *CmdData) Return(values ...string) {
	c.Returned = append(c.Returned, values...)
}

// ReturnPtr appends an opaque result.
func (c *CmdData) ReturnPtr(values ...any) {
	c.PtrReturned = append(c.PtrReturned, values...)
}

// Fail marks the envelope as failed and optionally records a string
// explanation as the first returned value, matching the convention used
// throughout the reserved command verbs (section 4.4 of the host's
// command router).
func (c *CmdData) Fail(reason string) {
	c.Failed = true
	if reason != "" {
		c.Returned = append(c.Returned, reason)
	}
}
