package eventlog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sauerbraten/frontline/internal/definitions/event"
)

const DefaultCapacity = 1024

// Log keeps the most recent events in a ring buffer and fans new ones out to subscribers. Fire is called
// from the simulation goroutine; everything else may be called from anywhere.
type Log struct {
	now func() time.Time

	mu      sync.RWMutex
	match   uuid.UUID
	records []Record // ring
	next    int      // index of the next write
	full    bool
	lastSeq uint64
	subs    map[chan Record]struct{}
}

// New returns a log keeping up to capacity records. now stamps the records; nil means time.Now.
func New(capacity int, now func() time.Time) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Log{
		now:     now,
		match:   uuid.New(),
		records: make([]Record, capacity),
		subs:    map[chan Record]struct{}{},
	}
}

// NewMatch starts a new match id. Records fired afterwards carry it.
func (l *Log) NewMatch() uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.match = uuid.New()
	return l.match
}

func (l *Log) MatchID() uuid.UUID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.match
}

func (l *Log) Fire(typ event.Type, args ...interface{}) {
	l.mu.Lock()
	l.lastSeq++
	rec := Record{
		Seq:   l.lastSeq,
		Match: l.match,
		Time:  l.now(),
		Type:  typ,
		Args:  argsMap(args),
	}
	l.records[l.next] = rec
	l.next = (l.next + 1) % len(l.records)
	if l.next == 0 {
		l.full = true
	}
	for ch := range l.subs {
		select {
		case ch <- rec:
		default:
			// slow subscribers miss events, they can catch up with Since
		}
	}
	l.mu.Unlock()
}

// LastSeq returns the sequence number of the newest record, 0 if nothing was fired yet.
func (l *Log) LastSeq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastSeq
}

// Since returns the retained records newer than seq, oldest first. truncated reports whether records after
// seq were already overwritten.
func (l *Log) Since(seq uint64) (records []Record, truncated bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := l.next
	start := 0
	if l.full {
		n = len(l.records)
		start = l.next
	}
	for i := 0; i < n; i++ {
		rec := l.records[(start+i)%len(l.records)]
		if rec.Seq > seq {
			if len(records) == 0 && rec.Seq > seq+1 {
				truncated = true
			}
			records = append(records, rec)
		}
	}
	return records, truncated
}

// Subscribe returns a channel receiving every record fired from now on. Records are dropped when the
// channel's buffer is full.
func (l *Log) Subscribe() chan Record {
	ch := make(chan Record, 64)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	return ch
}

func (l *Log) Unsubscribe(ch chan Record) {
	l.mu.Lock()
	delete(l.subs, ch)
	l.mu.Unlock()
}
