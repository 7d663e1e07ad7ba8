// Package reassembly reassembles concatenated SMS-DELIVER segments into a
// single joined User Data payload, keyed on the 3GPP TS 23.040 Section
// 9.2.3.24.1 concatenation reference carried in the UDH.
package reassembly

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/telkomkit/smsip/encoding/tpdu"
)

// Collector buffers concatenated SMS-DELIVER segments, grouped by
// originating address and concatenation reference, until a full set is
// available to be joined, or the reassembly times out.
type Collector struct {
	sync.Mutex // covers pipes and closed
	pipes      map[string]*pipe
	timeout    time.Duration
	closed     chan struct{}
	asyncError func(error)
}

// NewCollector creates a Collector. Incomplete reassemblies are discarded
// after timeout, invoking asyncError with an ErrExpired. asyncError must be
// safe to call from multiple goroutines.
func NewCollector(timeout time.Duration, asyncError func(error)) *Collector {
	return &Collector{
		pipes:      make(map[string]*pipe),
		timeout:    timeout,
		closed:     make(chan struct{}),
		asyncError: asyncError,
	}
}

// Close shuts down the Collector and discards all in-flight reassemblies.
func (c *Collector) Close() {
	c.Lock()
	defer c.Unlock()
	select {
	case <-c.closed:
	default:
		close(c.closed)
		for _, p := range c.pipes {
			p.cleanup.Stop()
		}
	}
}

// Collect adds a SMS-DELIVER segment to the collection.
//
// If pdu carries no concatenation IE, or segments<2, it is a complete
// message on its own and its UserData is returned immediately. Otherwise
// Collect buffers the segment and returns nil, nil until every segment of
// the set has arrived, at which point it returns the joined UserData built
// by concatenating each segment's UD (the UDH itself is not part of the
// joined payload; callers decode the payload using the DCS alphabet of any
// one segment, since the alphabet is consistent across a concatenated set).
func (c *Collector) Collect(pdu *tpdu.Deliver) (tpdu.UserData, error) {
	segments, seqno, mref, ok := pdu.UDH().ConcatInfo()
	if !ok || segments < 2 {
		return pdu.UD(), nil
	}
	if seqno < 1 || seqno > segments {
		return nil, ErrReassemblyInconsistency
	}
	oa := pdu.OA()
	key := fmt.Sprintf("%02x:%s:%d:%d", oa.TOA, oa.Addr, mref, segments)
	c.Lock()
	defer c.Unlock()
	select {
	case <-c.closed:
		return nil, ErrClosed
	default:
	}
	p, ok := c.pipes[key]
	if ok {
		if p.segments[seqno-1] != nil {
			return nil, ErrDuplicateSegment
		}
		if !p.cleanup.Stop() {
			// timer fired but cleanup hasn't run yet - start a fresh pipe.
			ok = false
		}
	}
	if !ok {
		p = &pipe{segments: make([]*tpdu.Deliver, segments)}
		c.pipes[key] = p
	}
	p.segments[seqno-1] = pdu
	p.frags++
	if p.frags == segments {
		delete(c.pipes, key)
		return join(p.segments), nil
	}
	p.cleanup = time.AfterFunc(c.timeout, func() {
		c.Lock()
		if c.pipes[key] == p {
			delete(c.pipes, key)
		}
		c.Unlock()
		c.asyncError(ErrExpired{p.segments})
	})
	return nil, nil
}

// join concatenates the UD of each segment, in sequence order, into a
// single User Data payload.
func join(segments []*tpdu.Deliver) tpdu.UserData {
	ud := tpdu.UserData{}
	for _, s := range segments {
		ud = append(ud, s.UD()...)
	}
	return ud
}

// pipe buffers the individual segments of a concatenation set until the
// complete set is available or the reassembly times out.
type pipe struct {
	cleanup  *time.Timer
	segments []*tpdu.Deliver
	frags    int
}

// ErrExpired indicates that a reassembly has timed out. The segments
// received before expiry are returned in the error.
type ErrExpired struct {
	Segments []*tpdu.Deliver
}

func (e ErrExpired) Error() string {
	return fmt.Sprintf("reassembly: timed out with %d segment(s) received", len(e.Segments))
}

var (
	// ErrClosed indicates the collector has been closed and is no longer
	// accepting segments.
	ErrClosed = errors.New("reassembly: collector closed")
	// ErrDuplicateSegment indicates a segment has arrived with the same
	// concatenation reference and sequence number as one already buffered.
	// The first received is kept and the second discarded.
	ErrDuplicateSegment = errors.New("reassembly: duplicate segment")
	// ErrReassemblyInconsistency indicates a segment arrived with a sequence
	// number outside the declared segment count.
	ErrReassemblyInconsistency = errors.New("reassembly: inconsistent segment/sequence numbers")
)
