package hidkit

import "github.com/hidkit/hidkit/report"

// Callback types are modeled as (function, opaque user data) pairs
// exactly as spec.md §4.6/§9 specifies; the core never dereferences
// userData, only hands it back.

// ElementCallback fires once per Element whose value changed (or whose
// Repeat flag forces it) while Device.OnInputReport decodes an input
// report.
type ElementCallback func(e *report.Element, userData interface{})

// DescriptorCallback fires after Device.RefreshDescriptor has successfully
// re-parsed the descriptor. The initial parse at open fires none.
type DescriptorCallback func(d *Device, userData interface{})

// ReadErrorCallback fires when the transport's read path returns an
// error outside of the normal decode flow.
type ReadErrorCallback func(d *Device, err error, userData interface{})

type elementCallbackEntry struct {
	fn       ElementCallback
	userData interface{}
}

type descriptorCallbackEntry struct {
	fn       DescriptorCallback
	userData interface{}
}

type readErrorCallbackEntry struct {
	fn       ReadErrorCallback
	userData interface{}
}
