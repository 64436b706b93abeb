package metrics

import "github.com/san-kum/verlet/internal/dynamo"

// Corrections is the mean number of pair corrections the solver made per
// frame, summed over sub-steps.
type Corrections struct {
	name    string
	sum     float64
	samples int
}

func NewCorrections() *Corrections {
	return &Corrections{
		name: "corrections",
	}
}

func (c *Corrections) Name() string {
	return c.name
}

func (c *Corrections) Observe(f dynamo.Frame) {
	c.sum += float64(f.Corrected)
	c.samples++
}

func (c *Corrections) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Corrections) Reset() {
	c.sum = 0
	c.samples = 0
}
