// Capacity-limited shared resources with FIFO waiter queues.
//
// Pools never reject: a request that cannot be granted immediately waits in
// enqueue order until Release hands it a unit, in the same virtual-time step.
// Compound acquisition over several pools is atomic: the ticket resolves only
// when every constituent pool can grant simultaneously, so a waiter never
// holds a partial set of units.

package sim

import (
	"github.com/sirupsen/logrus"
)

// Token represents one held unit of a ResourcePool.
type Token struct {
	pool     *ResourcePool
	released bool
}

// Pool returns the pool this token's unit belongs to.
func (t *Token) Pool() *ResourcePool {
	return t.pool
}

// GrantFunc resumes a waiter once its ticket is granted. Tokens are ordered
// as the pools were passed to AcquireAll.
type GrantFunc func(sim *Simulator, tokens []*Token)

// Ticket is a pending (possibly compound) acquisition. It sits in the FIFO
// waiter queue of every pool it covers and resolves only when all of them
// have a free unit for it.
type Ticket struct {
	pools     []*ResourcePool
	cb        GrantFunc
	granted   bool
	cancelled bool
}

// Granted reports whether the ticket has resolved.
func (t *Ticket) Granted() bool {
	return t.granted
}

// Cancel withdraws an ungranted ticket from every pool queue it waits in.
// Cancelling a granted ticket is a no-op; the holder must Release instead.
// Used by abandonment: cooperative cancellation, never a fault.
func (t *Ticket) Cancel(sim *Simulator) {
	if t.granted || t.cancelled {
		return
	}
	t.cancelled = true
	// A cancelled head may unblock the next waiter without any release.
	for _, p := range t.pools {
		p.dispatch(sim)
	}
}

// ResourcePool models a capacity-limited shared resource (triage nurses,
// doctors, cubicles, admission beds). All mutation happens synchronously
// within one scheduler step; a multi-threaded port must add per-pool mutual
// exclusion or route mutation through one coordinating task.
type ResourcePool struct {
	name     string
	capacity int
	held     int
	waiters  []*Ticket

	// held-time integral for utilization reporting
	busyIntegral int64
	lastChange   int64
}

// NewResourcePool creates a pool with the given fixed capacity.
func NewResourcePool(name string, capacity int) *ResourcePool {
	if capacity <= 0 {
		logrus.Panicf("pool %s: capacity must be positive, got %d", name, capacity)
	}
	return &ResourcePool{name: name, capacity: capacity}
}

// Name returns the pool's name.
func (p *ResourcePool) Name() string { return p.name }

// Capacity returns the pool's fixed capacity.
func (p *ResourcePool) Capacity() int { return p.capacity }

// Held returns the number of units currently held.
func (p *ResourcePool) Held() int { return p.held }

// FreeUnits returns the number of unheld units.
func (p *ResourcePool) FreeUnits() int { return p.capacity - p.held }

// QueueLength returns the number of live (uncancelled, ungranted) waiters.
func (p *ResourcePool) QueueLength() int {
	n := 0
	for _, t := range p.waiters {
		if !t.cancelled && !t.granted {
			n++
		}
	}
	return n
}

// Utilization returns the time-averaged fraction of capacity held over
// [0, now].
func (p *ResourcePool) Utilization(now int64) float64 {
	if now <= 0 {
		return 0
	}
	integral := p.busyIntegral + int64(p.held)*(now-p.lastChange)
	return float64(integral) / float64(int64(p.capacity)*now)
}

// Acquire requests one unit. If a unit is free and no one is queued ahead,
// cb runs synchronously at the current tick; otherwise the caller suspends
// in FIFO order. The returned ticket supports Cancel for abandonment.
func (p *ResourcePool) Acquire(sim *Simulator, cb func(sim *Simulator, token *Token)) *Ticket {
	return AcquireAll(sim, []*ResourcePool{p}, func(sim *Simulator, tokens []*Token) {
		cb(sim, tokens[0])
	})
}

// AcquireAll atomically requests one unit from each pool. The callback fires
// only once every pool can grant simultaneously; no partial holds ever exist.
func AcquireAll(sim *Simulator, pools []*ResourcePool, cb GrantFunc) *Ticket {
	if len(pools) == 0 {
		logrus.Panic("AcquireAll: no pools given")
	}
	t := &Ticket{pools: pools, cb: cb}
	for _, p := range pools {
		p.waiters = append(p.waiters, t)
	}
	pools[0].dispatch(sim)
	return t
}

// Release frees exactly one unit. If the queue is non-empty the unit is
// handed to the head waiter in the same virtual-time step.
func (p *ResourcePool) Release(sim *Simulator, token *Token) {
	if token == nil || token.pool != p {
		logrus.Panicf("pool %s: release of foreign token", p.name)
	}
	if token.released {
		logrus.Panicf("pool %s: double release", p.name)
	}
	token.released = true
	p.accountHeldChange(sim.Now(), -1)
	p.dispatch(sim)
}

// ReleaseAll releases every token of a compound grant together.
func ReleaseAll(sim *Simulator, tokens []*Token) {
	for _, token := range tokens {
		token.pool.Release(sim, token)
	}
}

// headLive returns the first uncancelled waiter, dropping cancelled ones.
func (p *ResourcePool) headLive() *Ticket {
	for len(p.waiters) > 0 {
		if p.waiters[0].cancelled || p.waiters[0].granted {
			p.waiters = p.waiters[1:]
			continue
		}
		return p.waiters[0]
	}
	return nil
}

// canGrant reports whether t is at the head of every constituent pool's
// queue with a free unit in each. Tickets enter all their pools at the same
// moment, so head order is consistent across pools and this cannot deadlock.
func canGrant(t *Ticket) bool {
	for _, p := range t.pools {
		if p.held >= p.capacity || p.headLive() != t {
			return false
		}
	}
	return true
}

// dispatch grants as many head tickets as capacity allows, synchronously.
func (p *ResourcePool) dispatch(sim *Simulator) {
	for {
		head := p.headLive()
		if head == nil || !canGrant(head) {
			return
		}
		head.granted = true
		tokens := make([]*Token, len(head.pools))
		for i, pool := range head.pools {
			// granted tickets are lazily dropped by headLive
			pool.accountHeldChange(sim.Now(), 1)
			tokens[i] = &Token{pool: pool}
		}
		head.cb(sim, tokens)
	}
}

// accountHeldChange applies a +-1 held delta, maintaining the utilization
// integral and the 0 <= held <= capacity invariant.
func (p *ResourcePool) accountHeldChange(now int64, delta int) {
	p.busyIntegral += int64(p.held) * (now - p.lastChange)
	p.lastChange = now
	p.held += delta
	if p.held < 0 || p.held > p.capacity {
		logrus.Panicf("pool %s: held=%d outside [0,%d]", p.name, p.held, p.capacity)
	}
}
