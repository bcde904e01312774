// Package hidkit parses USB HID report descriptors and decodes/encodes
// the bit-packed reports they describe, bridging the pure report model
// (package report) to a pluggable Transport.
package hidkit

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hidkit/hidkit/internal/quirksdb"
	"github.com/hidkit/hidkit/report"
)

// Option configures a DeviceFacade at construction time.
type Option func(*DeviceFacade)

// WithQuirks loads a quirk table that OpenByVidPid/OpenByPath apply to
// every device's parsed model before handing it back.
func WithQuirks(db *quirksdb.DB) Option {
	return func(f *DeviceFacade) { f.quirks = db }
}

// WithLogger overrides the facade's zerolog.Logger; without this option
// the facade uses the global logger (log.Logger).
func WithLogger(l zerolog.Logger) Option {
	return func(f *DeviceFacade) { f.log = l }
}

// DeviceFacade is the thin orchestration layer of spec.md §4.6: it owns
// nothing but a TransportOpener and optional quirk table, and hands back
// a *Device per successful open.
type DeviceFacade struct {
	opener TransportOpener
	quirks *quirksdb.DB
	log    zerolog.Logger
}

// NewDeviceFacade binds a facade to the given transport opener (normally
// linuxhid.Opener{}).
func NewDeviceFacade(opener TransportOpener, opts ...Option) *DeviceFacade {
	f := &DeviceFacade{opener: opener, log: log.Logger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Device is one opened HID device: its transport handle, parsed model,
// codec, and registered callbacks (spec.md §4.6, §5 — single-threaded,
// synchronous; the caller must not call decode and encode concurrently).
type Device struct {
	mu        sync.Mutex
	transport Transport
	model     *report.DeviceModel
	codec     *report.ReportCodec
	info      DeviceInfo
	log       zerolog.Logger
	quirks    *quirksdb.DB

	elementCallbacks    []elementCallbackEntry
	descriptorCallbacks []descriptorCallbackEntry
	readErrorCallbacks  []readErrorCallbackEntry

	closed bool
}

func (f *DeviceFacade) buildDevice(t Transport, info DeviceInfo) (*Device, error) {
	d := &Device{
		transport: t,
		info:      info,
		quirks:    f.quirks,
		log:       f.log.With().Str("path", info.Path).Uint16("vid", info.VendorID).Uint16("pid", info.ProductID).Logger(),
	}
	if err := d.reparse(); err != nil {
		t.Close()
		return nil, err
	}
	if err := t.SetNonblocking(true); err != nil {
		d.log.Warn().Err(err).Msg("failed to set non-blocking mode")
	}
	d.log.Info().Msg("device opened")
	return d, nil
}

// reparse fetches and parses the transport's current report descriptor,
// applies any registered quirk, and installs the result as the device's
// active model/codec. Called once from buildDevice (no descriptor
// callback can be registered yet, so none fire) and again from
// RefreshDescriptor (where they do) — the one place spec.md §6's
// descriptor_callback actually has something to report.
func (d *Device) reparse() error {
	raw, err := d.transport.GetReportDescriptor()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDescriptorRead, err)
	}
	model, err := report.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDescriptorRead, err)
	}
	if d.quirks.Apply(model, d.info.VendorID, d.info.ProductID) {
		d.log.Info().Msg("applied report descriptor quirk")
	}
	d.model = model
	d.codec = report.NewReportCodec(model)
	return nil
}

// RefreshDescriptor re-reads the device's report descriptor, reapplies
// any quirk, swaps in the resulting model/codec, and fires every
// registered DescriptorCallback. Use this after a device is known to have
// changed its reported descriptor (some composite HID devices switch
// function on a mode-setting Output report); element state from the
// previous model is discarded along with it.
func (d *Device) RefreshDescriptor() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if err := d.reparse(); err != nil {
		return err
	}
	for _, cb := range d.descriptorCallbacks {
		cb.fn(d, cb.userData)
	}
	return nil
}

// OpenByPath opens the device at the given platform-specific path
// (spec.md §4.6).
func (f *DeviceFacade) OpenByPath(path string) (*Device, error) {
	t, info, err := f.opener.OpenByPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return f.buildDevice(t, info)
}

// OpenByVidPid opens the first device matching vid/pid (and serial, if
// non-empty) (spec.md §4.6).
func (f *DeviceFacade) OpenByVidPid(vid, pid uint16, serial string) (*Device, error) {
	t, info, err := f.opener.OpenByVidPid(vid, pid, serial)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return f.buildDevice(t, info)
}

// Enumerate lists devices matching vid/pid without opening them.
func (f *DeviceFacade) Enumerate(vid, pid uint16) ([]DeviceInfo, error) {
	return f.opener.Enumerate(vid, pid)
}

// Model returns the device's parsed report descriptor.
func (d *Device) Model() *report.DeviceModel { return d.model }

// Info returns the device's enumeration metadata.
func (d *Device) Info() DeviceInfo { return d.info }

// Close releases the transport. Safe to call more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.log.Info().Msg("device closed")
	return d.transport.Close()
}

// SetElementValue updates e.Value and emits an Output report for its
// report id over the transport (spec.md §4.6; this facade always treats
// a full report as the unit, per §9's platform-element-query alternative
// being out of scope for the Linux transport).
func (d *Device) SetElementValue(e *report.Element, value int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	e.Value = value
	buf, err := d.codec.EncodeOutput(e.ReportID)
	if err != nil && err != report.ErrOutOfRange {
		return err
	}
	if _, werr := d.transport.Write(buf); werr != nil {
		d.log.Error().Err(werr).Msg("writing output report")
		return fmt.Errorf("%w: %v", ErrTransport, werr)
	}
	return err
}

// OnInputReport decodes buf as an input report, firing registered
// element callbacks for every changed element, in descriptor order
// (spec.md §4.6 → ReportCodec decode path).
func (d *Device) OnInputReport(buf []byte) error {
	d.mu.Lock()
	callbacks := append([]elementCallbackEntry(nil), d.elementCallbacks...)
	d.mu.Unlock()

	return d.codec.DecodeInput(buf, func(e *report.Element) {
		for _, cb := range callbacks {
			cb.fn(e, cb.userData)
		}
	})
}

// ReadLoop blocks on the transport's Read and feeds every report through
// OnInputReport until Read returns an error, reporting failures via the
// registered read-error callbacks.
func (d *Device) ReadLoop(bufSize int) error {
	buf := make([]byte, bufSize)
	for {
		n, err := d.transport.Read(buf)
		if err != nil {
			d.mu.Lock()
			callbacks := append([]readErrorCallbackEntry(nil), d.readErrorCallbacks...)
			d.mu.Unlock()
			for _, cb := range callbacks {
				cb.fn(d, err, cb.userData)
			}
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		if n == 0 {
			continue
		}
		if err := d.OnInputReport(buf[:n]); err != nil {
			d.log.Warn().Err(err).Msg("decoding input report")
		}
	}
}

// OnElementChange registers a callback fired per changed element.
func (d *Device) OnElementChange(cb ElementCallback, userData interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elementCallbacks = append(d.elementCallbacks, elementCallbackEntry{cb, userData})
}

// OnDescriptorEvent registers a callback fired by RefreshDescriptor once
// the device's model and codec have been rebuilt.
func (d *Device) OnDescriptorEvent(cb DescriptorCallback, userData interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.descriptorCallbacks = append(d.descriptorCallbacks, descriptorCallbackEntry{cb, userData})
}

// OnReadError registers a callback fired when ReadLoop's transport read
// fails.
func (d *Device) OnReadError(cb ReadErrorCallback, userData interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readErrorCallbacks = append(d.readErrorCallbacks, readErrorCallbackEntry{cb, userData})
}
