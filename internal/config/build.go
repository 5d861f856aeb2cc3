package config

import "github.com/san-kum/bouncesim/internal/sim"

// NewSimulator validates c, then returns a running simulator sized to the
// arena with the configured gravity applied.
func (c *Config) NewSimulator(opts ...sim.Option) (*sim.Simulator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := sim.New(c.SimConfig(), opts...)
	bounds := c.Bounds()
	if err := s.Initialize(&bounds); err != nil {
		return nil, err
	}
	s.SetGravity(c.Gravity())
	s.Run()
	return s, nil
}
