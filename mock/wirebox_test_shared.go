package mock

import (
	"fmt"
	"sync"
	"time"

	"github.com/centraunit/wirebox"
)

// Core interfaces
type Store interface {
	Put(key, value string)
	Get(key string) (string, bool)
}

type Clock interface {
	Now() time.Time
}

// BackingStore and PrimaryStore exist as distinct identities for alias
// chains; any Store satisfies them.
type BackingStore interface {
	Store
}

type PrimaryStore interface {
	Store
}

// MemoryStore is the canonical Store implementation.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string]string)
	}
	s.data[key] = value
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	return value, ok
}

// FixedClock reports a constant instant.
type FixedClock struct {
	Instant time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.Instant
}

// Indexer exercises constructor injection: Store and Clock come from the
// container, label and shard count from the binding's extra arguments.
type Indexer struct {
	Store  Store
	Clock  Clock
	Label  string
	Shards int
}

func NewIndexer(s Store, c Clock, label string, shards int) *Indexer {
	return &Indexer{Store: s, Clock: c, Label: label, Shards: shards}
}

// Bus exercises a variadic constructor tail.
type Bus struct {
	Store  Store
	Topics []string
}

func NewBus(s Store, topics ...string) *Bus {
	return &Bus{Store: s, Topics: topics}
}

// Conn exercises a constructor that can fail.
type Conn struct {
	DSN string
}

func NewConn(dsn string) (*Conn, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty dsn")
	}
	return &Conn{DSN: dsn}, nil
}

// Publisher exercises struct-tag property injection.
type Publisher struct {
	Store Store `inject:""`
	Clock Clock `inject:""`
	Name  string
}

// Auditor exercises method injection: SetStore takes only resolved
// parameters, Configure mixes a resolved Clock with a caller-supplied label.
type Auditor struct {
	store Store
	clock Clock
	label string
}

func (a *Auditor) SetStore(s Store) {
	a.store = s
}

func (a *Auditor) Configure(c Clock, label string) {
	a.clock = c
	a.label = label
}

func (a *Auditor) Store() Store  { return a.store }
func (a *Auditor) Clock() Clock  { return a.clock }
func (a *Auditor) Label() string { return a.label }

// Subscriber exercises fully-resolved method injection, usable from the
// autowiring boundary where no extra arguments are available.
type Subscriber struct {
	clock Clock
}

func (s *Subscriber) SetClock(c Clock) {
	s.clock = c
}

func (s *Subscriber) Clock() Clock { return s.clock }

// Flaky exercises an injected method that returns an error.
type Flaky struct {
	Err error
}

func (f *Flaky) Attach(c Clock) error {
	return f.Err
}

// Widget is a bare struct with no metadata, for pass-through construction.
type Widget struct {
	Ready bool
}

// Metadata builds the registration table the fixtures above rely on. Tests
// hand the result to wirebox.New via WithMetadataProvider.
func Metadata() *wirebox.MetadataRegistry {
	reg := wirebox.NewMetadataRegistry()
	reg.RegisterConstructorN(wirebox.TypeOf[Indexer](), NewIndexer, 2)
	reg.RegisterConstructor(wirebox.TypeOf[Bus](), NewBus)
	reg.RegisterConstructorN(wirebox.TypeOf[Conn](), NewConn, 0)
	reg.RegisterMethod(wirebox.TypeOf[Auditor](), "SetStore")
	reg.RegisterMethodN(wirebox.TypeOf[Auditor](), "Configure", 1)
	reg.RegisterMethod(wirebox.TypeOf[Subscriber](), "SetClock")
	reg.RegisterMethod(wirebox.TypeOf[Flaky](), "Attach")
	return reg
}
