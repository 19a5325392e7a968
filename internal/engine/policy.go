package engine

// PersistPolicy decides, after vocabulary grew, whether a snapshot write is due.
// It is only called with the learning store's lock held.
type PersistPolicy interface {
	ShouldPersist() bool
}

// PolicyFunc adapts a function to PersistPolicy
type PolicyFunc func() bool

func (f PolicyFunc) ShouldPersist() bool { return f() }

var (
	Always PersistPolicy = PolicyFunc(func() bool { return true })
	Never  PersistPolicy = PolicyFunc(func() bool { return false })
)

// EveryN requests a write on every n-th growth of the vocabulary
type EveryN struct {
	n     int
	count int
}

func NewEveryN(n int) *EveryN {
	if n < 1 {
		n = 1
	}
	return &EveryN{n: n}
}

func (p *EveryN) ShouldPersist() bool {
	p.count++
	if p.count < p.n {
		return false
	}
	p.count = 0
	return true
}

// Sampled requests a write with probability rate; roll returns values in [0, 1)
type Sampled struct {
	rate float64
	roll func() float64
}

func NewSampled(rate float64, roll func() float64) *Sampled {
	return &Sampled{rate: rate, roll: roll}
}

func (p *Sampled) ShouldPersist() bool {
	return p.roll() < p.rate
}
