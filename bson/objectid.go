package bson

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"
)

// ObjectID is the 12-byte payload of a BSON ObjectID element: a 4-byte
// big-endian Unix-seconds timestamp, 5 bytes of process-random state, and
// a 3-byte big-endian counter.
type ObjectID [12]byte

// NilObjectID is the all-zero ObjectID.
var NilObjectID ObjectID

// ObjectIDFromHex parses a 24-character hex string into an ObjectID.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) != 24 {
		return id, invalidArgf("objectid: %q is not 24 hex characters", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, wrapError(InvalidArgument, "objectid: invalid hex", err)
	}
	copy(id[:], b)
	return id, nil
}

// Hex returns the lowercase 24-character hex encoding of id.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ObjectID) String() string { return id.Hex() }

// Timestamp returns the embedded creation time at second resolution.
func (id ObjectID) Timestamp() time.Time {
	secs := binary.BigEndian.Uint32(id[0:4])
	return time.Unix(int64(secs), 0).UTC()
}

// IsZero reports whether id is the all-zero value.
func (id ObjectID) IsZero() bool {
	return id == NilObjectID
}

// processRandom guards the 5 bytes of process-random state every
// generated ObjectID shares. It is written exactly once, at generator
// construction, and read on every call to next(); the RWMutex costs
// nothing under read-only steady state but keeps a concurrent reseed (see
// reseed, called at construction and otherwise only by tests) from racing
// with in-flight reads.
type processRandom struct {
	mutex sync.RWMutex
	value [5]byte
}

func (r *processRandom) get() [5]byte {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.value
}

func (r *processRandom) reseed(b [5]byte) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.value = b
}

// objectIDGenerator produces process-wide unique ObjectIDs: 5 bytes of
// random state fixed at process start, plus an atomically incremented
// 3-byte counter that wraps from 0xFFFFFF back to 0x000000.
type objectIDGenerator struct {
	random  processRandom
	counter uint32 // only the low 24 bits are meaningful
}

var globalGenerator = newObjectIDGenerator()

func newObjectIDGenerator() *objectIDGenerator {
	g := &objectIDGenerator{}
	var r [5]byte
	seedProcessRandom(r[:])
	g.random.reseed(r)
	atomic.StoreUint32(&g.counter, initialCounter())
	return g
}

// NewObjectID generates a new ObjectID using the process-wide generator.
func NewObjectID() ObjectID {
	return globalGenerator.next()
}

func (g *objectIDGenerator) next() ObjectID {
	var id ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))

	random := g.random.get()
	copy(id[4:9], random[:])

	c := atomic.AddUint32(&g.counter, 1) & 0x00FFFFFF
	id[9] = byte(c >> 16)
	id[10] = byte(c >> 8)
	id[11] = byte(c)

	return id
}

// seedProcessRandom fills b with process-startup randomness. This is the
// "on-device randomness source" collaborator the ObjectID generator is
// specified against, not reimplemented here: it is a thin wrapper over
// crypto/rand, swappable in environments with a better entropy source.
func seedProcessRandom(b []byte) {
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// unavailable, which this library has no fallback for.
		panic(internalf("objectid: failed to read process-random seed: %v", err))
	}
}

// initialCounter seeds the atomic counter with a random starting value so
// that counters from distinct process starts within the same second are
// unlikely to collide.
func initialCounter() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(internalf("objectid: failed to read counter seed: %v", err))
	}
	return binary.BigEndian.Uint32(b[:]) & 0x00FFFFFF
}
