// Package touch reads a Linux multitouch screen and reports single-finger
// touches in viewport pixels.
package touch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holoplot/go-evdev"

	"github.com/yildizm/wedsite/internal/logger"
)

type Phase int

const (
	Start Phase = iota
	Move
	End
)

func (p Phase) String() string {
	switch p {
	case Start:
		return "start"
	case Move:
		return "move"
	default:
		return "end"
	}
}

// Event is a touch in viewport pixels.
type Event struct {
	Phase Phase
	X, Y  int
}

// Device is the part of an evdev input device the reader needs.
type Device interface {
	ReadOne() (*evdev.InputEvent, error)
	AbsInfos() (map[evdev.EvCode]evdev.AbsInfo, error)
	Close() error
}

// Viewport reports the current size in pixels the axes are scaled to.
type Viewport func() (width, height int)

type axis struct {
	min, max int32
}

func (a axis) scale(raw int32, size int) int {
	if a.max <= a.min || size <= 0 {
		return int(raw)
	}
	if raw < a.min {
		raw = a.min
	}
	if raw > a.max {
		raw = a.max
	}
	return int(int64(raw-a.min) * int64(size) / int64(a.max-a.min))
}

// decoder folds evdev frames into touch events. Only the first slot is
// followed.
type decoder struct {
	x, y       axis
	rawX, rawY int32
	down       bool
	wasDown    bool
	moved      bool
}

func newDecoder(infos map[evdev.EvCode]evdev.AbsInfo) (*decoder, error) {
	d := &decoder{}
	var okX, okY bool
	for _, pair := range [][2]evdev.EvCode{{evdev.ABS_MT_POSITION_X, evdev.ABS_MT_POSITION_Y}, {evdev.ABS_X, evdev.ABS_Y}} {
		ix, hasX := infos[pair[0]]
		iy, hasY := infos[pair[1]]
		if hasX && hasY {
			d.x = axis{min: ix.Minimum, max: ix.Maximum}
			d.y = axis{min: iy.Minimum, max: iy.Maximum}
			okX, okY = true, true
			break
		}
	}
	if !okX || !okY {
		return nil, errors.New("device has no absolute position axes")
	}
	return d, nil
}

// feed consumes one input event and returns a touch event at the end of a
// frame, if the frame changed anything.
func (d *decoder) feed(ev *evdev.InputEvent, vp Viewport) (Event, bool) {
	switch ev.Type {
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_MT_POSITION_X, evdev.ABS_X:
			d.rawX = ev.Value
			d.moved = true
		case evdev.ABS_MT_POSITION_Y, evdev.ABS_Y:
			d.rawY = ev.Value
			d.moved = true
		case evdev.ABS_MT_TRACKING_ID:
			d.down = ev.Value >= 0
		}
	case evdev.EV_KEY:
		if ev.Code == evdev.BTN_TOUCH {
			d.down = ev.Value != 0
		}
	case evdev.EV_SYN:
		if ev.Code == evdev.SYN_REPORT {
			return d.frame(vp)
		}
	}
	return Event{}, false
}

func (d *decoder) frame(vp Viewport) (Event, bool) {
	w, h := vp()
	out := Event{X: d.x.scale(d.rawX, w), Y: d.y.scale(d.rawY, h)}
	moved := d.moved
	d.moved = false

	switch {
	case d.down && !d.wasDown:
		out.Phase = Start
	case d.down && moved:
		out.Phase = Move
	case !d.down && d.wasDown:
		out.Phase = End
	default:
		d.wasDown = d.down
		return Event{}, false
	}
	d.wasDown = d.down
	return out, true
}

// Reader delivers touches from a device on a channel until closed.
type Reader struct {
	dev    Device
	events chan Event
	log    *logger.Logger

	closeOnce sync.Once
	closed    chan struct{}
	wg        sync.WaitGroup
}

// Open reads the input device at path, e.g. /dev/input/event0.
func Open(path string, vp Viewport, log *logger.Logger) (*Reader, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open touch device %s: %w", path, err)
	}
	r, err := NewReader(dev, vp, log)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	if name, err := dev.Name(); err == nil {
		r.log.Info("reading touches from %s (%s)", path, name)
	}
	return r, nil
}

// NewReader starts reading dev.
func NewReader(dev Device, vp Viewport, log *logger.Logger) (*Reader, error) {
	if log == nil {
		log = logger.Discard()
	}
	infos, err := dev.AbsInfos()
	if err != nil {
		return nil, fmt.Errorf("failed to query touch axes: %w", err)
	}
	dec, err := newDecoder(infos)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		dev:    dev,
		events: make(chan Event, 64),
		log:    log.WithComponent("touch"),
		closed: make(chan struct{}),
	}
	r.wg.Add(1)
	go r.run(dec, vp)
	return r, nil
}

// Events is closed when reading stops.
func (r *Reader) Events() <-chan Event {
	return r.events
}

func (r *Reader) run(dec *decoder, vp Viewport) {
	defer r.wg.Done()
	defer close(r.events)

	for {
		ev, err := r.dev.ReadOne()
		if err != nil {
			select {
			case <-r.closed:
			default:
				r.log.Error("touch device read failed: %v", err)
			}
			return
		}
		out, ok := dec.feed(ev, vp)
		if !ok {
			continue
		}
		select {
		case r.events <- out:
		case <-r.closed:
			return
		}
	}
}

// Close stops the reader and waits for it to finish.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.closed)
		err = r.dev.Close()
		r.wg.Wait()
	})
	return err
}
