package model

import "time"

// Projectile is an in-flight shot.
type Projectile struct {
	ID           uint64
	Owner        uint32
	OwnerFaction string
	Origin       Vec2
	Position     Vec2
	Velocity     Vec2
	Damage       int32
	Radius       float64
	ExpiresAt    time.Time

	// Resolved is set by the first contact that applies this projectile's
	// damage; later overlaps in the same frame are ignored.
	Resolved bool
}

// Expired reports whether the projectile outlived its lifetime.
func (p *Projectile) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// ProjectilePool recycles projectile records.
// Not safe for concurrent use; owned by the arena goroutine.
type ProjectilePool struct {
	free   []*Projectile
	nextID uint64
}

// NewProjectilePool creates a pool with capacity preallocated records.
func NewProjectilePool(capacity int) *ProjectilePool {
	p := &ProjectilePool{free: make([]*Projectile, 0, capacity)}
	for range capacity {
		p.free = append(p.free, &Projectile{})
	}
	return p
}

// Acquire returns a zeroed projectile with a fresh ID.
func (p *ProjectilePool) Acquire() *Projectile {
	var pr *Projectile
	if n := len(p.free); n > 0 {
		pr = p.free[n-1]
		p.free = p.free[:n-1]
		*pr = Projectile{}
	} else {
		pr = &Projectile{}
	}
	p.nextID++
	pr.ID = p.nextID
	return pr
}

// Release hands a projectile back to the pool.
func (p *ProjectilePool) Release(pr *Projectile) {
	if pr == nil {
		return
	}
	p.free = append(p.free, pr)
}

// Free returns the number of idle records.
func (p *ProjectilePool) Free() int {
	return len(p.free)
}
