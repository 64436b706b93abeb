package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/physics"
)

var _ = Describe("Arena", func() {
	const (
		arenaRadius    = 350.0
		particleRadius = 4.0
	)
	center := dynamo.Vec{X: 400, Y: 400}

	Describe("Confine", func() {
		It("leaves every particle within the allowed rim", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 500; i++ {
				p := dynamo.NewParticle(dynamo.Vec{
					X: center.X + (rng.Float64()-0.5)*2000,
					Y: center.Y + (rng.Float64()-0.5)*2000,
				}, 0)
				physics.Confine(&p, center, arenaRadius, particleRadius)
				Expect(r2.Norm(r2.Sub(p.Position, center))).To(BeNumerically("<=", arenaRadius-particleRadius+1e-9))
			}
		})

		It("is idempotent", func() {
			p := dynamo.NewParticle(dynamo.Vec{X: 2000, Y: -50}, 0)
			Expect(physics.Confine(&p, center, arenaRadius, particleRadius)).To(BeTrue())
			once := p.Position
			Expect(physics.Confine(&p, center, arenaRadius, particleRadius)).To(BeFalse())
			Expect(p.Position).To(Equal(once))
		})
	})

	Describe("ResolveAll", func() {
		It("does nothing on an empty or single-particle slice", func() {
			Expect(physics.ResolveAll(nil, particleRadius)).To(Equal(0))
			one := []dynamo.Particle{dynamo.NewParticle(center, 0)}
			Expect(physics.ResolveAll(one, particleRadius)).To(Equal(0))
			Expect(one[0].Position).To(Equal(center))
		})

		It("keeps a stack of coincident spawns finite", func() {
			ps := make([]dynamo.Particle, 32)
			for i := range ps {
				ps[i] = dynamo.NewParticle(center, 0)
			}

			for pass := 0; pass < 10; pass++ {
				physics.ResolveAll(ps, particleRadius)
				for i := range ps {
					Expect(ps[i].IsValid()).To(BeTrue(), "particle %d after pass %d", i, pass)
				}
			}
		})

		It("converges a random cluster toward separation", func() {
			rng := rand.New(rand.NewSource(42))
			ps := make([]dynamo.Particle, 40)
			for i := range ps {
				ps[i] = dynamo.NewParticle(dynamo.Vec{
					X: center.X + rng.Float64()*20,
					Y: center.Y + rng.Float64()*20,
				}, 0)
			}
			start := physics.MaxOverlap(ps, particleRadius)
			Expect(start).To(BeNumerically(">", 0))

			passes := 0
			for ; passes < 5000 && physics.MaxOverlap(ps, particleRadius) > 1e-3*particleRadius; passes++ {
				physics.ResolveAll(ps, particleRadius)
			}
			Expect(physics.MaxOverlap(ps, particleRadius)).To(BeNumerically("<=", 1e-3*particleRadius), "after %d passes", passes)
		})

		It("preserves the centroid of an isolated cluster", func() {
			rng := rand.New(rand.NewSource(3))
			ps := make([]dynamo.Particle, 12)
			var before dynamo.Vec
			for i := range ps {
				ps[i] = dynamo.NewParticle(dynamo.Vec{X: rng.Float64() * 10, Y: rng.Float64() * 10}, 0)
				before = r2.Add(before, ps[i].Position)
			}

			physics.ResolveAll(ps, particleRadius)

			var after dynamo.Vec
			for i := range ps {
				after = r2.Add(after, ps[i].Position)
			}
			Expect(math.Abs(after.X - before.X)).To(BeNumerically("<", 1e-9))
			Expect(math.Abs(after.Y - before.Y)).To(BeNumerically("<", 1e-9))
		})
	})
})
