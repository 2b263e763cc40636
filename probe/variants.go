package probe

import (
	"context"
	"time"

	"github.com/stianeikeland/go-rpio-probe/workload"
)

// Loop bounds. They set the length of each HIGH window and must stay fixed
// for captures to be comparable.
const (
	simpleOuter, simpleInner     = 10000, 10000
	infiniteOuter, infiniteInner = 500, 10000
	burstOuter, burstInner       = 250, 150

	// burstSeed starts the accumulator of the multi-trigger workload.
	burstSeed = 12345678915678

	// scratchWrites is how many bytes the I/O probe appends.
	scratchWrites = 9
)

// sleep pauses between the first two bursts.
var sleep = time.Sleep

// SimpleLoop brackets one 10000×10000 counting loop.
func SimpleLoop(p *Probe) error {
	var c workload.Counters
	err := p.Bracket(func() error {
		c = workload.Nested(simpleOuter, simpleInner)
		return nil
	})
	if err != nil {
		return err
	}
	return p.Report(c)
}

// Infinite brackets a 500×10000 counting loop over and over until ctx is
// done. The context is only checked between iterations so every HIGH window
// is complete.
func Infinite(ctx context.Context, p *Probe) error {
	for ctx.Err() == nil {
		var c workload.Counters
		err := p.Bracket(func() error {
			c = workload.Nested(infiniteOuter, infiniteInner)
			return nil
		})
		if err != nil {
			return err
		}
		if err := p.Report(c); err != nil {
			return err
		}
	}
	return nil
}

// MultipleTriggers raises the line and runs a division-heavy loop, then emits
// two pulse bursts 50µs apart. A burst ends LOW, so the second loop runs with
// the line low and is marked only by the third burst that follows it.
func MultipleTriggers(p *Probe) error {
	if err := p.High(); err != nil {
		return err
	}
	workload.NestedDiv(burstOuter, burstInner, burstSeed)

	if err := p.Burst(); err != nil {
		return err
	}
	sleep(BurstDelay)
	if err := p.Burst(); err != nil {
		return err
	}

	c := workload.NestedDiv(burstOuter, burstInner, burstSeed)
	if err := p.Burst(); err != nil {
		return err
	}
	if err := p.Low(); err != nil {
		return err
	}
	return p.Report(c)
}

// SimpleIO brackets every append to s with its own LOW/HIGH edge pair inside
// one HIGH window, then echoes the file to the probe output and deletes it.
// s is consumed: it is closed and removed on every path.
func SimpleIO(p *Probe, s *workload.Scratch) (err error) {
	defer func() {
		if err != nil {
			s.Close()
			s.Remove()
		}
	}()

	err = p.Bracket(func() error {
		for i := 0; i < scratchWrites; i++ {
			if err := p.Low(); err != nil {
				return err
			}
			if err := s.Put('a'); err != nil {
				return err
			}
			if err := p.High(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err = s.Close(); err != nil {
		return err
	}
	if err = s.Echo(p.out); err != nil {
		return err
	}
	return s.Remove()
}
